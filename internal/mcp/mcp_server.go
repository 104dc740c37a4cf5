// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/learnstat/internal/contract"
)

// selectionOptions are the arguments shared by the dashboard tools.
func selectionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("session", mcp.Description("Session identifier passed to the stats source."), mcp.Required()),
		mcp.WithString("period", mcp.Description("Date window (week, month, custom). Defaults to the configured period."), mcp.Enum("week", "month", "custom")),
		mcp.WithString("start_date", mcp.Description("Custom window start (YYYY-MM-DD).")),
		mcp.WithString("end_date", mcp.Description("Custom window end (YYYY-MM-DD).")),
		mcp.WithNumber("window", mcp.Description("Rolling window size in days.")),
	}
}

// NewMCPServer initializes and configures the learnstat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Learnstat Progress Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_progress_dashboard ---
	dashboardOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Build the normalized per-day progress dashboard for a learner session."),
	}, selectionOptions()...)
	s.AddTool(mcp.NewTool("get_progress_dashboard", dashboardOpts...), h.handleGetDashboard)

	// --- 2. Tool: get_rolling_summary ---
	summaryOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Compute rolling means and achievement labels for a learner session."),
	}, selectionOptions()...)
	s.AddTool(mcp.NewTool("get_rolling_summary", summaryOpts...), h.handleGetSummary)

	// --- 3. Tool: normalize_records ---
	s.AddTool(mcp.NewTool("normalize_records",
		mcp.WithDescription("Merge, zero-fill and normalize caller supplied day records without fetching."),
		mcp.WithString("records_json", mcp.Description("JSON array of day records (date, ai_info, terms, quiz_score, quiz_correct, quiz_total)."), mcp.Required()),
		mcp.WithString("start_date", mcp.Description("Window start (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("Window end (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Rolling window size in days.")),
	), h.handleNormalizeRecords)

	return s
}

// StartMCPServer starts the learnstat MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
