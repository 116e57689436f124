package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/okrpulse/okrpulse/core"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	source  contract.SnapshotSource
	mgr     contract.StoreManager
}

// resolveConfig clones the base config and applies per-call overrides.
func (h *toolHandler) resolveConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("snapshot_path", ""); p != "" {
		cfg.SnapshotPath = p
	}
	if cfg.SnapshotPath == "" {
		return nil, fmt.Errorf("snapshot_path is required")
	}
	if s := request.GetString("as_of", ""); s != "" {
		now := time.Now()
		t, err := time.Parse(contract.DateTimeFormat, s)
		if err != nil {
			t, err = contract.ParseRelativeTime(s, now)
			if err != nil {
				return nil, fmt.Errorf("invalid as_of '%s': expected absolute ISO8601 or 'N units ago'", s)
			}
		}
		cfg.AsOf = t
	}
	return cfg, nil
}

func (h *toolHandler) handleGetReportSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	snap, err := h.source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot load failed: %v", err)), nil
	}

	report := core.BuildReport(cfg, snap)
	h.applyTrends(&report)

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetUserShifts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid shift parameters: %v", err)), nil
	}

	period := cfg.Period
	if p := request.GetString("period", ""); p != "" {
		period = schema.Period(p)
		if _, ok := schema.ValidPeriods[period]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid period '%s': must be weekly or monthly", p)), nil
		}
	}
	if period == "" {
		period = schema.WeeklyPeriod
	}

	snap, err := h.source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot load failed: %v", err)), nil
	}

	results := core.ComputeShifts(cfg, snap, period)
	if l := request.GetInt("limit", 0); l > 0 && l < len(results) {
		results = results[:l]
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAlignmentTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tree parameters: %v", err)), nil
	}

	snap, err := h.source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot load failed: %v", err)), nil
	}

	tree := core.BuildAlignmentTree(cfg, snap)
	jsonData, _ := json.MarshalIndent(tree, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetUserScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid score parameters: %v", err)), nil
	}

	snap, err := h.source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot load failed: %v", err)), nil
	}

	scores := core.ComputeScores(cfg, snap)
	if l := request.GetInt("limit", 0); l > 0 && l < len(scores) {
		scores = scores[:l]
	}

	jsonData, _ := json.MarshalIndent(scores, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetOrgHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid health parameters: %v", err)), nil
	}

	snap, err := h.source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot load failed: %v", err)), nil
	}

	report := core.BuildReport(cfg, snap)
	h.applyTrends(&report)

	jsonData, _ := json.MarshalIndent(report.Health, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// applyTrends upgrades health trends from the previous recorded run when a
// history store is available. Store failures leave the trends unset.
func (h *toolHandler) applyTrends(report *schema.Report) {
	if h.mgr == nil {
		return
	}
	store := h.mgr.GetReportStore()
	if store == nil {
		return
	}
	if prev, err := store.GetLastRun(); err == nil {
		core.UpdateTrends(&report.Health, prev)
	}
}
