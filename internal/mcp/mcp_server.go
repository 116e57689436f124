// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/snapshot"
)

// NewMCPServer initializes and configures the okrpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"OKR Pulse Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		source:  snapshot.NewFileSource(),
		mgr:     mgr,
	}

	// --- 1. Tool: get_report_summary ---
	s.AddTool(mcp.NewTool("get_report_summary",
		mcp.WithDescription("Compute the full organization OKR report and return its summary, health and alerts."),
		mcp.WithString("snapshot_path", mcp.Description("Path to the snapshot file (defaults to the configured snapshot if not specified).")),
		mcp.WithString("as_of", mcp.Description("Reference instant in ISO8601 or 'N units ago'. Defaults to now.")),
	), h.handleGetReportSummary)

	// --- 2. Tool: get_user_shifts ---
	s.AddTool(mcp.NewTool("get_user_shifts",
		mcp.WithDescription("Compute reconciled per-user progress shifts for a weekly or monthly period."),
		mcp.WithString("snapshot_path", mcp.Description("Path to the snapshot file.")),
		mcp.WithString("period", mcp.Description("Reporting period (weekly, monthly). Defaults to 'weekly'."), mcp.Enum("weekly", "monthly")),
		mcp.WithString("as_of", mcp.Description("Reference instant in ISO8601 or 'N units ago'.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetUserShifts)

	// --- 3. Tool: get_alignment_tree ---
	s.AddTool(mcp.NewTool("get_alignment_tree",
		mcp.WithDescription("Rebuild the organization alignment hierarchy (company, dept/team, goal, key result) from the snapshot."),
		mcp.WithString("snapshot_path", mcp.Description("Path to the snapshot file.")),
	), h.handleGetAlignmentTree)

	// --- 4. Tool: get_user_scores ---
	s.AddTool(mcp.NewTool("get_user_scores",
		mcp.WithDescription("Compute composite per-user engagement scores with component breakdowns."),
		mcp.WithString("snapshot_path", mcp.Description("Path to the snapshot file.")),
		mcp.WithString("as_of", mcp.Description("Reference instant in ISO8601 or 'N units ago'.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetUserScores)

	// --- 5. Tool: get_org_health ---
	s.AddTool(mcp.NewTool("get_org_health",
		mcp.WithDescription("Compute organization health scores (OKR, checkin, overall) and recommendations."),
		mcp.WithString("snapshot_path", mcp.Description("Path to the snapshot file.")),
		mcp.WithString("as_of", mcp.Description("Reference instant in ISO8601 or 'N units ago'.")),
	), h.handleGetOrgHealth)

	return s
}

// StartMCPServer starts the okrpulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
