// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Trendbox MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Trendbox Summary Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	rowOptions := []mcp.ToolOption{
		mcp.WithString("rows_json", mcp.Description("Rows as a JSON string: an array of objects, an array of arrays, or an envelope with tables.DEFAULT and fields.")),
		mcp.WithArray("rows", mcp.Description("Rows as a JSON array. Used when rows_json is empty.")),
		mcp.WithString("date_field", mcp.Description("Field holding the date, by name or as #N (1-based position).")),
		mcp.WithString("value_field", mcp.Description("Field holding the measured value.")),
		mcp.WithString("target_field", mcp.Description("Field holding the target value (optional).")),
		mcp.WithString("historical_field", mcp.Description("Field holding the same-period-last-year value (optional).")),
		mcp.WithBoolean("show_targets", mcp.Description("Include the target series. Defaults to true.")),
		mcp.WithBoolean("show_historical", mcp.Description("Include the historical series. Defaults to true.")),
		mcp.WithString("timezone", mcp.Description("IANA time zone dates are bucketed in (e.g., 'UTC', 'America/New_York').")),
		mcp.WithBoolean("record", mcp.Description("Record this invocation in run history when a backend is configured. Defaults to true.")),
	}

	// --- 1. Tool: get_weekly_summary ---
	weekly := append([]mcp.ToolOption{
		mcp.WithDescription("Aggregate rows into weekly buckets (weeks start on Sunday), keep the trailing weeks and compute growth metrics."),
		mcp.WithNumber("weeks", mcp.Description("Number of trailing weekly buckets. Defaults to 6."), mcp.Min(1), mcp.Max(520)),
	}, rowOptions...)
	s.AddTool(mcp.NewTool("get_weekly_summary", weekly...), h.handleWeeklySummary)

	// --- 2. Tool: get_monthly_summary ---
	monthly := append([]mcp.ToolOption{
		mcp.WithDescription("Aggregate rows into monthly buckets, keep the months before the reference time and compute growth metrics."),
		mcp.WithNumber("months", mcp.Description("Number of months before the reference time. Defaults to 12."), mcp.Min(1), mcp.Max(240)),
		mcp.WithString("now", mcp.Description("Reference time (RFC3339, YYYY-MM-DD or 'N [units] ago'). Defaults to the current time.")),
	}, rowOptions...)
	s.AddTool(mcp.NewTool("get_monthly_summary", monthly...), h.handleMonthlySummary)

	// --- 3. Tool: get_field_definitions ---
	s.AddTool(mcp.NewTool("get_field_definitions",
		mcp.WithDescription("Describe the configured field mapping, chart variants and growth metrics."),
		mcp.WithString("date_field", mcp.Description("Override the date field.")),
		mcp.WithString("value_field", mcp.Description("Override the value field.")),
		mcp.WithString("target_field", mcp.Description("Override the target field.")),
		mcp.WithString("historical_field", mcp.Description("Override the historical field.")),
	), h.handleFieldDefinitions)

	return s
}

// StartMCPServer starts the Trendbox MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
