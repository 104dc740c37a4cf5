package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/learnstat/core"
	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.StatsClient
	mgr     contract.CacheManager
}

// selectionConfig clones the base config and applies the request's selection arguments.
func (h *toolHandler) selectionConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateSelection(cfg, contract.Selection{
		Session: request.GetString("session", ""),
		Period:  request.GetString("period", ""),
		Start:   request.GetString("start_date", ""),
		End:     request.GetString("end_date", ""),
		Window:  request.GetInt("window", 0),
	})
	return cfg, err
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.selectionConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dashboard parameters: %v", err)), nil
	}

	dash, err := core.GetDashboardResults(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}
	return jsonResult(dash), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.selectionConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid summary parameters: %v", err)), nil
	}

	dash, err := core.GetDashboardResults(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	if dash.Pending {
		return mcp.NewToolResultText(fmt.Sprintf("stats for session %q are not available yet", cfg.SessionID)), nil
	}
	return jsonResult(dash.Summary), nil
}

func (h *toolHandler) handleNormalizeRecords(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	start := request.GetString("start_date", "")
	end := request.GetString("end_date", "")
	if start == "" || end == "" {
		return mcp.NewToolResultError("invalid normalize parameters: start_date and end_date are required"), nil
	}
	err := contract.RevalidateSelection(cfg, contract.Selection{
		Session: "inline",
		Period:  string(schema.CustomPeriod),
		Start:   start,
		End:     end,
		Window:  request.GetInt("window", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid normalize parameters: %v", err)), nil
	}

	var records []schema.RawDayRecord
	dec := json.NewDecoder(strings.NewReader(request.GetString("records_json", "")))
	if err := dec.Decode(&records); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid records_json: %v", err)), nil
	}

	stats := &schema.PeriodStats{StartDate: start, EndDate: end, PeriodData: records}
	dash := core.BuildDashboard(core.NewDashboardRequest(cfg), stats)
	return jsonResult(dash), nil
}
