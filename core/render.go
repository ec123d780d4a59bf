package core

import (
	"fmt"
	"time"

	"github.com/huangsam/trendbox/core/agg"
	"github.com/huangsam/trendbox/core/growth"
	"github.com/huangsam/trendbox/core/parse"
	"github.com/huangsam/trendbox/core/window"
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/rows"
	"github.com/huangsam/trendbox/schema"
	"github.com/rs/zerolog/log"
)

// Render parses, buckets, windows and scores one adapted table. Mapping and
// argument defects become a failed summary instead of an error, as do panics.
func Render(table rows.Table, cfg *contract.Config, variant schema.Variant) (summary schema.Summary) {
	summary = schema.Summary{
		Variant:     variant,
		Series:      []schema.TimeSeriesPoint{},
		RowsRead:    len(table.Rows),
		Style:       cfg.Style,
		GeneratedAt: time.Now(),
	}

	defer func() {
		if r := recover(); r != nil {
			markFailed(&summary, fmt.Errorf("panic: %v", r))
		}
	}()

	mapping, err := rows.ResolveMapping(table.Header, cfg.ActiveMapping())
	if err != nil {
		markFailed(&summary, err)
		return summary
	}

	points, diags, err := parse.Parse(table.Rows, mapping, parse.Options{Location: cfg.Location})
	summary.Diagnostics = diags
	logDiagnostics(variant, diags)
	if err != nil {
		markFailed(&summary, err)
		return summary
	}
	summary.Points = len(points)
	if len(points) == 0 {
		summary.Status = schema.StatusNoData
		summary.Message = schema.MsgNoData
		return summary
	}

	series, err := selectWindow(points, cfg, variant)
	if err != nil {
		markFailed(&summary, err)
		return summary
	}
	if len(series) == 0 {
		summary.Status = schema.StatusInsufficient
		summary.Message = schema.MsgInsufficient
		return summary
	}

	box := schema.BoxScore{
		LastValue:     series[len(series)-1].Value,
		GrowthMetrics: growth.ComputeGrowth(series),
	}
	summary.Status = schema.StatusOK
	summary.Series = series
	summary.Growth = box.GrowthMetrics
	summary.BoxScore = &box
	summary.Items = schema.BoxScoreItems(variant, box, cfg.Precision)
	return summary
}

// selectWindow buckets points by week and trims them to the variant's window.
// The twelve-month variant re-buckets the weekly series into months.
func selectWindow(points []schema.TimeSeriesPoint, cfg *contract.Config, variant schema.Variant) ([]schema.TimeSeriesPoint, error) {
	weekly, err := agg.Aggregate(points, schema.WeekGranularity)
	if err != nil {
		return nil, err
	}

	switch variant {
	case schema.SixWeekVariant:
		return window.TrailingBuckets(weekly, cfg.TrailingWeeks)
	case schema.TwelveMonthVariant:
		return window.TrailingMonths(weekly, cfg.MonthCount, referenceNow(cfg))
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", schema.ErrInvalidArgument, variant)
	}
}

// referenceNow falls back to the wall clock when the config carries no reference time.
func referenceNow(cfg *contract.Config) time.Time {
	if !cfg.ReferenceNow.IsZero() {
		return cfg.ReferenceNow
	}
	if cfg.Location != nil {
		return time.Now().In(cfg.Location)
	}
	return time.Now()
}

// markFailed replaces the summary body with the user-visible failure message.
func markFailed(summary *schema.Summary, err error) {
	log.Error().Err(err).Str("variant", string(summary.Variant)).Msg("summary rendering failed")
	summary.Status = schema.StatusFailed
	summary.Message = schema.MsgCannotRender
	summary.Series = []schema.TimeSeriesPoint{}
	summary.Growth = schema.GrowthMetrics{}
	summary.BoxScore = nil
	summary.Items = nil
}

func logDiagnostics(variant schema.Variant, diags []schema.Diagnostic) {
	for _, d := range diags {
		log.Warn().
			Str("variant", string(variant)).
			Int("row", d.Row).
			Str("field", d.Field).
			Str("input", d.Input).
			Msg(d.Reason)
	}
}
