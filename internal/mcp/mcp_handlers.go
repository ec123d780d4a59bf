package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/trendbox/core"
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/outwriter"
	"github.com/huangsam/trendbox/internal/rows"
	"github.com/huangsam/trendbox/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// summaryArgs are the arguments shared by the summary tools.
type summaryArgs struct {
	RowsJSON string          `json:"rows_json"`
	Rows     json.RawMessage `json:"rows"`
	Record   *bool           `json:"record"`
	contract.Overrides
}

// table adapts whichever row argument was supplied.
func (a summaryArgs) table() (rows.Table, error) {
	switch {
	case strings.TrimSpace(a.RowsJSON) != "":
		return rows.ReadJSON([]byte(a.RowsJSON))
	case len(a.Rows) > 0:
		return rows.ReadJSON(a.Rows)
	default:
		return rows.Table{}, errors.New("either rows_json or rows is required")
	}
}

func (h *toolHandler) handleWeeklySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.handleSummary(ctx, request, schema.SixWeekVariant)
}

func (h *toolHandler) handleMonthlySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.handleSummary(ctx, request, schema.TwelveMonthVariant)
}

func (h *toolHandler) handleSummary(ctx context.Context, request mcp.CallToolRequest, variant schema.Variant) (*mcp.CallToolResult, error) {
	var args summaryArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	cfg, err := contract.ApplyOverrides(h.baseCfg, args.Overrides)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid summary parameters: %v", err)), nil
	}

	table, err := args.table()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid rows: %v", err)), nil
	}

	if args.Record != nil && !*args.Record {
		ctx = core.WithoutHistory(ctx)
	}
	summary, err := core.Summarize(ctx, table, cfg, h.mgr, variant)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFieldDefinitions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var overrides contract.Overrides
	if err := request.BindArguments(&overrides); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	cfg, err := contract.ApplyOverrides(h.baseCfg, overrides)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid field parameters: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outwriter.BuildFieldsRenderModel(cfg), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
