package growth

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/trendbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeGrowthEmpty(t *testing.T) {
	assert.Equal(t, schema.GrowthMetrics{}, ComputeGrowth(nil))
	assert.Equal(t, schema.GrowthMetrics{}, ComputeGrowth([]schema.TimeSeriesPoint{}))
}

func TestComputeGrowthSinglePoint(t *testing.T) {
	g := ComputeGrowth([]schema.TimeSeriesPoint{{Date: day(2024, time.March, 3), Value: 5}})
	assert.False(t, g.WeekOverWeek.Valid)
	assert.False(t, g.YearOverYear.Valid)
}

func TestComputeGrowthTwoPoints(t *testing.T) {
	series := []schema.TimeSeriesPoint{
		{Date: day(2024, time.March, 3), Value: 100},
		{Date: day(2024, time.March, 10), Value: 120, HistoricalValue: null.FloatFrom(95)},
	}

	g := ComputeGrowth(series)
	require.True(t, g.WeekOverWeek.Valid)
	assert.InDelta(t, 20.0, g.WeekOverWeek.Float64, 1e-9)
	require.True(t, g.YearOverYear.Valid)
	assert.InDelta(t, 26.3158, g.YearOverYear.Float64, 1e-4)

	// The March anchor is the first point, which has no historical value.
	assert.False(t, g.MonthToDate.Valid)
	assert.False(t, g.QuarterToDate.Valid)
	assert.False(t, g.YearToDate.Valid)
}

func TestComputeGrowthToDateAnchors(t *testing.T) {
	series := []schema.TimeSeriesPoint{
		{Date: day(2023, time.December, 31), Value: 10, HistoricalValue: null.FloatFrom(1)},
		{Date: day(2024, time.January, 7), Value: 10, HistoricalValue: null.FloatFrom(50)},
		{Date: day(2024, time.April, 7), Value: 10, HistoricalValue: null.FloatFrom(80)},
		{Date: day(2024, time.May, 5), Value: 10, HistoricalValue: null.FloatFrom(40)},
		{Date: day(2024, time.May, 12), Value: 100},
	}

	g := ComputeGrowth(series)
	assert.InDelta(t, 150.0, g.MonthToDate.Float64, 1e-9, "anchored at May 5")
	assert.InDelta(t, 25.0, g.QuarterToDate.Float64, 1e-9, "anchored at April 7")
	assert.InDelta(t, 100.0, g.YearToDate.Float64, 1e-9, "anchored at January 7")
	assert.False(t, g.YearOverYear.Valid, "last point has no historical value")
	assert.InDelta(t, 900.0, g.WeekOverWeek.Float64, 1e-9)
}

func TestComputeGrowthIndependentMetrics(t *testing.T) {
	series := []schema.TimeSeriesPoint{
		{Date: day(2024, time.June, 2), Value: 0, HistoricalValue: null.FloatFrom(0)},
		{Date: day(2024, time.June, 9), Value: 30, HistoricalValue: null.FloatFrom(20)},
	}

	g := ComputeGrowth(series)
	assert.False(t, g.WeekOverWeek.Valid, "zero base")
	assert.False(t, g.MonthToDate.Valid, "anchor historical value is zero")
	assert.InDelta(t, 50.0, g.YearOverYear.Float64, 1e-9)
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		input  time.Time
		want   time.Time
	}{
		{"month", Month, day(2024, time.August, 19), day(2024, time.August, 1)},
		{"q1", Quarter, day(2024, time.March, 31), day(2024, time.January, 1)},
		{"q2", Quarter, day(2024, time.April, 1), day(2024, time.April, 1)},
		{"q3", Quarter, day(2024, time.September, 2), day(2024, time.July, 1)},
		{"q4", Quarter, day(2024, time.December, 29), day(2024, time.October, 1)},
		{"year", Year, day(2024, time.November, 3), day(2024, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Start(tt.input))
		})
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		base    null.Float
		want    null.Float
	}{
		{"increase", 110, null.FloatFrom(100), null.FloatFrom(10)},
		{"decrease", 50, null.FloatFrom(100), null.FloatFrom(-50)},
		{"negative base", -50, null.FloatFrom(-100), null.FloatFrom(-50)},
		{"absent base", 50, null.Float{}, null.Float{}},
		{"zero base", 50, null.FloatFrom(0), null.Float{}},
		{"overflow", math.MaxFloat64, null.FloatFrom(-math.SmallestNonzeroFloat64), null.Float{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.current, tt.base)
			assert.Equal(t, tt.want.Valid, got.Valid)
			if tt.want.Valid {
				assert.InDelta(t, tt.want.Float64, got.Float64, 1e-9)
			}
		})
	}
}
