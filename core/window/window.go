// Package window trims an aggregated series down to what a chart displays.
package window

import (
	"fmt"
	"time"

	"github.com/huangsam/trendbox/core/agg"
	"github.com/huangsam/trendbox/schema"
	"github.com/samber/lo"
)

// TrailingBuckets returns the last min(n, len(series)) points in their
// original order. The result never aliases series.
func TrailingBuckets(series []schema.TimeSeriesPoint, n int) ([]schema.TimeSeriesPoint, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: trailing bucket count must be positive, got %d", schema.ErrInvalidArgument, n)
	}
	start := max(len(series)-n, 0)
	out := make([]schema.TimeSeriesPoint, len(series)-start)
	copy(out, series[start:])
	return out, nil
}

// TrailingMonths keeps points dated on or after referenceNow minus monthCount
// calendar months and rolls the survivors up into month buckets.
func TrailingMonths(series []schema.TimeSeriesPoint, monthCount int, referenceNow time.Time) ([]schema.TimeSeriesPoint, error) {
	if monthCount < 1 {
		return nil, fmt.Errorf("%w: month count must be positive, got %d", schema.ErrInvalidArgument, monthCount)
	}
	cutoff := Cutoff(referenceNow, monthCount)
	kept := lo.Filter(series, func(p schema.TimeSeriesPoint, _ int) bool {
		return !p.Date.Before(cutoff)
	})
	return agg.Aggregate(kept, schema.MonthGranularity)
}

// Cutoff is the earliest instant kept by TrailingMonths.
func Cutoff(referenceNow time.Time, monthCount int) time.Time {
	return referenceNow.AddDate(0, -monthCount, 0)
}
