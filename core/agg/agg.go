// Package agg reduces time-series points into calendar buckets.
package agg

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/trendbox/schema"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"
)

// DayStart returns midnight of t's calendar day in t's location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Sunday 00:00 at or before t, in t's location.
// Day arithmetic goes through AddDate so DST transitions do not shift the key.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// MonthStart returns the 1st of t's month at 00:00, in t's location.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// KeyFunc maps a date onto its bucket start.
type KeyFunc func(time.Time) time.Time

// BucketKeyFunc returns the key function for a granularity.
func BucketKeyFunc(g schema.Granularity) (KeyFunc, error) {
	switch g {
	case schema.DayGranularity:
		return DayStart, nil
	case schema.WeekGranularity:
		return WeekStart, nil
	case schema.MonthGranularity:
		return MonthStart, nil
	default:
		return nil, fmt.Errorf("%w: unsupported granularity %q", schema.ErrInvalidArgument, g)
	}
}

// Aggregate groups points by bucket start and averages each field over the
// points that supplied it. The output is sorted ascending with one point per bucket.
// An empty input yields an empty output.
func Aggregate(points []schema.TimeSeriesPoint, g schema.Granularity) ([]schema.TimeSeriesPoint, error) {
	keyFn, err := BucketKeyFunc(g)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return []schema.TimeSeriesPoint{}, nil
	}

	idx := newBucketIndex()
	for _, p := range points {
		idx.get(keyFn(p.Date)).add(p)
	}
	return idx.points(), nil
}

// bucket accumulates one calendar interval. Optional fields keep their own
// contributor counts so absent inputs never pull a mean toward zero.
type bucket struct {
	start       time.Time
	valueSum    float64
	count       int
	targetSum   float64
	targetCount int
	histSum     float64
	histCount   int
}

func (b *bucket) add(p schema.TimeSeriesPoint) {
	b.valueSum += p.Value
	b.count++
	if p.Target.Valid {
		b.targetSum += p.Target.Float64
		b.targetCount++
	}
	if p.HistoricalValue.Valid {
		b.histSum += p.HistoricalValue.Float64
		b.histCount++
	}
}

func (b *bucket) point() schema.TimeSeriesPoint {
	return schema.TimeSeriesPoint{
		Date:            b.start,
		Value:           b.valueSum / float64(b.count),
		Target:          mean(b.targetSum, b.targetCount),
		HistoricalValue: mean(b.histSum, b.histCount),
	}
}

func mean(sum float64, n int) null.Float {
	if n == 0 {
		return null.Float{}
	}
	return null.FloatFrom(sum / float64(n))
}

// bucketIndex is keyed by the bucket start instant rather than a formatted
// string, so lookups cannot drift from inserts.
type bucketIndex struct {
	byKey map[int64]*bucket
	order []*bucket
}

func newBucketIndex() *bucketIndex {
	return &bucketIndex{byKey: make(map[int64]*bucket)}
}

func (idx *bucketIndex) get(start time.Time) *bucket {
	key := start.Unix()
	if b, ok := idx.byKey[key]; ok {
		return b
	}
	b := &bucket{start: start}
	idx.byKey[key] = b
	idx.order = append(idx.order, b)
	return b
}

func (idx *bucketIndex) points() []schema.TimeSeriesPoint {
	slices.SortFunc(idx.order, func(a, b *bucket) int {
		return cmp.Compare(a.start.Unix(), b.start.Unix())
	})
	return lo.Map(idx.order, func(b *bucket, _ int) schema.TimeSeriesPoint {
		return b.point()
	})
}
