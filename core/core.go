// Package core has core logic for turning a table into a trend summary.
package core

import (
	"context"
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/outwriter"
	"github.com/huangsam/trendbox/internal/rows"
	"github.com/huangsam/trendbox/schema"
)

// ExecutorFunc defines the function signature for executing a chart variant.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteSixWeek renders the trailing-weeks summary and prints it.
// It serves as the main entry point for the 'weekly' command.
func ExecuteSixWeek(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	return executeVariant(ctx, cfg, mgr, schema.SixWeekVariant, outwriter.NewOutWriter())
}

// ExecuteTwelveMonth renders the trailing-months summary and prints it.
// It serves as the main entry point for the 'monthly' command.
func ExecuteTwelveMonth(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	return executeVariant(ctx, cfg, mgr, schema.TwelveMonthVariant, outwriter.NewOutWriter())
}

// executeVariant loads the input table, renders it and hands the summary to out.
// Only input and output failures are returned; pipeline failures live in the summary.
func executeVariant(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, variant schema.Variant, out contract.OutputWriter) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return err
	}

	table, err := rows.Load(cfg.InputPath, rows.Options{
		Format: cfg.InputFormat,
		Sheet:  cfg.Sheet,
		Header: cfg.HasHeader,
	})
	if err != nil {
		return err
	}

	summary, err := Summarize(ctx, table, cfg, mgr, variant)
	if err != nil {
		return err
	}
	return out.WriteSummary(summary, cfg, time.Since(start))
}

// Summarize renders an already adapted table and records the run.
// It serves the HTTP and MCP surfaces, which bring their own rows.
func Summarize(ctx context.Context, table rows.Table, cfg *contract.Config, mgr contract.HistoryManager, variant schema.Variant) (schema.Summary, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return schema.Summary{}, err
	}

	summary := Render(table, cfg, variant)
	if !shouldSkipHistory(ctx) {
		recordRun(mgr, cfg, summary, start)
	}
	return summary, nil
}

// recordRun stores the finished invocation when a history store is configured.
// History failures are logged and never fail the invocation.
func recordRun(mgr contract.HistoryManager, cfg *contract.Config, summary schema.Summary, start time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	runID, err := store.BeginRun(summary.Variant, start, cfg.Params())
	if err != nil {
		contract.LogWarn("Run history initialization failed", err)
		return
	}
	if err := store.RecordPoints(runID, summary.Series); err != nil {
		contract.LogWarn("Failed to record run points", err)
	}
	if err := store.EndRun(runID, time.Now(), summary); err != nil {
		contract.LogWarn("Failed to finalize run history", err)
	}
}
