package schema

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// TimeSeriesPoint is one observation, or one bucket once aggregated.
// Target and HistoricalValue are explicitly optional and never stand in for zero.
type TimeSeriesPoint struct {
	Date            time.Time  `json:"date"`
	Value           float64    `json:"value"`
	Target          null.Float `json:"target"`
	HistoricalValue null.Float `json:"historical_value"`
}

// GrowthMetrics holds signed percentages, each absent when not computable.
type GrowthMetrics struct {
	WeekOverWeek  null.Float `json:"week_over_week"`
	YearOverYear  null.Float `json:"year_over_year"`
	MonthToDate   null.Float `json:"month_to_date"`
	QuarterToDate null.Float `json:"quarter_to_date"`
	YearToDate    null.Float `json:"year_to_date"`
}
