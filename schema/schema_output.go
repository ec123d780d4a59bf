package schema

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// BoxScore flattens the most recent value together with the growth metrics.
type BoxScore struct {
	LastValue float64 `json:"last_value"`
	GrowthMetrics
}

// BoxScoreItem is one labeled, display-formatted box score cell.
type BoxScoreItem struct {
	Label   string `json:"label"`
	Display string `json:"display"`
}

// Style carries render hints through to the output. None of it affects the numbers.
type Style struct {
	GraphNumber     int    `json:"graph_number"`
	LineColor       string `json:"line_color"`
	HistoricalColor string `json:"historical_color"`
	TargetColor     string `json:"target_color"`
	ShowTargets     bool   `json:"show_targets"`
	ShowHistorical  bool   `json:"show_historical"`
	ShowGrowthRates bool   `json:"show_growth_rates"`
}

// Summary is everything one invocation hands to a renderer.
// A non-ok Status carries a Message and no series.
type Summary struct {
	Variant     Variant           `json:"variant"`
	Status      SummaryStatus     `json:"status"`
	Message     string            `json:"message,omitempty"`
	Series      []TimeSeriesPoint `json:"series"`
	Growth      GrowthMetrics     `json:"growth"`
	BoxScore    *BoxScore         `json:"box_score,omitempty"`
	Items       []BoxScoreItem    `json:"box_score_items,omitempty"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	RowsRead    int               `json:"rows_read"`
	Points      int               `json:"points_parsed"`
	Style       Style             `json:"style"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// OK reports whether the summary has something to draw.
func (s Summary) OK() bool {
	return s.Status == StatusOK
}

// Rates returns the growth metrics in box score order, after the last value.
func (b BoxScore) Rates() []null.Float {
	return []null.Float{b.WeekOverWeek, b.YearOverYear, b.MonthToDate, b.QuarterToDate, b.YearToDate}
}
