// Package growth derives period-over-period metrics from a windowed series.
package growth

import (
	"math"
	"time"

	"github.com/huangsam/trendbox/schema"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"
)

// Period is a calendar span used to anchor a to-date metric.
type Period int

const (
	Month Period = iota
	Quarter
	Year
)

// Start returns the first instant of the period containing t, in t's location.
// Quarters begin in January, April, July and October.
func (p Period) Start(t time.Time) time.Time {
	y, m, _ := t.Date()
	switch p {
	case Quarter:
		m = time.Month((int(m)-1)/3*3 + 1)
	case Year:
		m = time.January
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// ComputeGrowth returns the five growth percentages for an ascending series.
// Each metric is computed on its own; one that cannot be computed is absent.
func ComputeGrowth(series []schema.TimeSeriesPoint) schema.GrowthMetrics {
	var g schema.GrowthMetrics
	if len(series) == 0 {
		return g
	}
	last := series[len(series)-1]

	if len(series) >= 2 {
		prev := series[len(series)-2]
		g.WeekOverWeek = PercentChange(last.Value, null.FloatFrom(prev.Value))
	}
	g.YearOverYear = PercentChange(last.Value, last.HistoricalValue)
	g.MonthToDate = toDate(series, last, Month)
	g.QuarterToDate = toDate(series, last, Quarter)
	g.YearToDate = toDate(series, last, Year)
	return g
}

// toDate compares the last value against the historical value of the first
// point on or after the start of the period holding the last point.
func toDate(series []schema.TimeSeriesPoint, last schema.TimeSeriesPoint, p Period) null.Float {
	start := p.Start(last.Date)
	anchor, ok := lo.Find(series, func(pt schema.TimeSeriesPoint) bool {
		return !pt.Date.Before(start)
	})
	if !ok {
		return null.Float{}
	}
	return PercentChange(last.Value, anchor.HistoricalValue)
}

// PercentChange is (current - base) / base * 100. It is absent when base is
// absent or zero, or when the result is not finite.
func PercentChange(current float64, base null.Float) null.Float {
	if !base.Valid || base.Float64 == 0 {
		return null.Float{}
	}
	pct := (current - base.Float64) / base.Float64 * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return null.Float{}
	}
	return null.FloatFrom(pct)
}
