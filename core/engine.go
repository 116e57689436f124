// Package core has core logic for reconciliation, alignment, scoring and reporting.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/okrpulse/okrpulse/core/stats"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/outwriter"
	"github.com/okrpulse/okrpulse/schema"
)

// ErrCheckFailed reports that one or more check gates did not pass.
var ErrCheckFailed = errors.New("one or more checks failed")

// ExecutorFunc defines the function signature for executing different analysis modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, source contract.SnapshotSource, mgr contract.StoreManager) error

// runArtifacts bundles everything one full computation produces, so the
// report, history recording and score output all come from the same pass.
type runArtifacts struct {
	report  schema.Report
	weekly  []schema.ShiftResult
	monthly []schema.ShiftResult
	scores  []schema.UserScore
}

// ExecuteReport runs the full analysis and writes the organization report.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, source contract.SnapshotSource, mgr contract.StoreManager) error {
	start := time.Now()

	// 1. Load the snapshot
	snapshot, err := source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return err
	}

	// 2. Compute shifts, stats, scores and the aggregate report
	run := computeRun(cfg, snapshot)

	// 3. Upgrade trends and record history when a store is configured
	recordRun(cfg, mgr, snapshot, &run, start)

	// 4. Write the report
	duration := time.Since(start)
	return outwriter.WriteReport(&run.report, cfg, duration)
}

// ExecuteShifts computes per-user progress shifts for the configured period.
// It serves as the main entry point for the 'shifts' command.
func ExecuteShifts(ctx context.Context, cfg *contract.Config, source contract.SnapshotSource, _ contract.StoreManager) error {
	start := time.Now()

	// 1. Load the snapshot
	snapshot, err := source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return err
	}

	// 2. Reconcile shifts for the requested period and print
	results := limitShifts(ComputeShifts(cfg, snapshot, cfg.Period), cfg.ResultLimit)
	duration := time.Since(start)
	return outwriter.WriteShiftResults(results, cfg, duration)
}

// ExecuteScores computes composite engagement scores for every user.
// It serves as the main entry point for the 'scores' command.
func ExecuteScores(ctx context.Context, cfg *contract.Config, source contract.SnapshotSource, _ contract.StoreManager) error {
	start := time.Now()

	// 1. Load the snapshot
	snapshot, err := source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return err
	}

	// 2. Score users and print
	scores := ComputeScores(cfg, snapshot)
	if cfg.ResultLimit > 0 && cfg.ResultLimit < len(scores) {
		scores = scores[:cfg.ResultLimit]
	}
	duration := time.Since(start)
	return outwriter.WriteUserScores(scores, cfg, duration)
}

// ExecuteTree builds the alignment hierarchy and writes it as an outline.
// It serves as the main entry point for the 'tree' command.
func ExecuteTree(ctx context.Context, cfg *contract.Config, source contract.SnapshotSource, _ contract.StoreManager) error {
	start := time.Now()

	// 1. Load the snapshot
	snapshot, err := source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return err
	}

	// 2. Build the tree and print
	tree := BuildAlignmentTree(cfg, snapshot)
	duration := time.Since(start)
	return outwriter.WriteAlignmentTree(tree, cfg, duration)
}

// ExecuteCheck gates the computed report against the configured thresholds.
// It serves as the main entry point for the 'check' command; a failed gate
// surfaces as ErrCheckFailed so the process exits nonzero.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, source contract.SnapshotSource, _ contract.StoreManager) error {
	start := time.Now()

	// 1. Load the snapshot
	snapshot, err := source.Load(ctx, cfg.SnapshotPath)
	if err != nil {
		return err
	}

	// 2. Compute the report and evaluate every gate
	run := computeRun(cfg, snapshot)
	result := EvaluateChecks(&run.report, cfg.CheckThresholds)

	// 3. Print the verdict
	duration := time.Since(start)
	if err := outwriter.WriteCheckResult(result, cfg, duration); err != nil {
		return err
	}
	if !result.Passed {
		return ErrCheckFailed
	}
	return nil
}

// BuildReport computes the full organization report for one snapshot without
// touching any I/O. It is the pure heart of the engine, shared by the CLI,
// the MCP server and tests.
func BuildReport(cfg *contract.Config, snapshot *schema.Snapshot) schema.Report {
	return computeRun(cfg, snapshot).report
}

// ComputeShifts reconciles per-user shifts for one period.
func ComputeShifts(cfg *contract.Config, snapshot *schema.Snapshot, period schema.Period) []schema.ShiftResult {
	dir := schema.NewUserDirectory(snapshot.Users, cfg.DeptNames, cfg.TeamNames)
	cal := NewCalendar(cfg.AsOf)
	ledger := BuildLedger(snapshot)
	return NewShiftReconciler(snapshot, ledger, cal, dir).ComputeAll(period)
}

// ComputeScores computes composite scores for every user. The movement
// component keys on adjusted monthly shifts, which stay zero while the
// calendar suppresses monthly comparisons.
func ComputeScores(cfg *contract.Config, snapshot *schema.Snapshot) []schema.UserScore {
	dir := schema.NewUserDirectory(snapshot.Users, cfg.DeptNames, cfg.TeamNames)
	cal := NewCalendar(cfg.AsOf)
	ledger := BuildLedger(snapshot)

	var monthly []schema.ShiftResult
	if cal.ShouldCalculateMonthlyShift() {
		monthly = NewShiftReconciler(snapshot, ledger, cal, dir).ComputeAll(schema.MonthlyPeriod)
	}
	return NewScoreEngine(snapshot, ledger, cal, dir).ComputeAll(monthlyShiftIndex(monthly))
}

// BuildAlignmentTree builds the alignment hierarchy for one snapshot.
func BuildAlignmentTree(cfg *contract.Config, snapshot *schema.Snapshot) *schema.TreeNode {
	dir := schema.NewUserDirectory(snapshot.Users, cfg.DeptNames, cfg.TeamNames)
	return NewAlignmentTreeBuilder(snapshot, dir).Build()
}

// computeRun performs the single full pass behind report, check and score
// output: weekly shifts always, monthly shifts when the calendar allows,
// then stats, scores and the aggregate report.
func computeRun(cfg *contract.Config, snapshot *schema.Snapshot) runArtifacts {
	dir := schema.NewUserDirectory(snapshot.Users, cfg.DeptNames, cfg.TeamNames)
	cal := NewCalendar(cfg.AsOf)
	ledger := BuildLedger(snapshot)
	reconciler := NewShiftReconciler(snapshot, ledger, cal, dir)

	weekly := reconciler.ComputeAll(schema.WeeklyPeriod)
	var monthly []schema.ShiftResult
	if cal.ShouldCalculateMonthlyShift() {
		monthly = reconciler.ComputeAll(schema.MonthlyPeriod)
	}

	scores := NewScoreEngine(snapshot, ledger, cal, dir).ComputeAll(monthlyShiftIndex(monthly))

	collector := stats.NewCollector(snapshot, ledger, dir, cfg.AsOf)
	checkins, behavior := collector.Checkins(cal.QuarterStart(), cal.LastFriday())
	alignment := collector.Alignment()

	return runArtifacts{
		report:  BuildOrgReport(weekly, checkins, behavior, alignment),
		weekly:  weekly,
		monthly: monthly,
		scores:  scores,
	}
}

func monthlyShiftIndex(monthly []schema.ShiftResult) map[string]float64 {
	index := make(map[string]float64, len(monthly))
	for _, r := range monthly {
		index[r.UserID] = r.AdjustedShift
	}
	return index
}

func limitShifts(results []schema.ShiftResult, limit int) []schema.ShiftResult {
	if limit <= 0 || limit >= len(results) {
		return results
	}
	return results[:limit]
}

// recordRun persists the run and its per-user figures, and upgrades the
// report's health trends from the previous run. Store failures degrade to
// warnings because reporting must not die when history is unavailable.
func recordRun(cfg *contract.Config, mgr contract.StoreManager, snapshot *schema.Snapshot, run *runArtifacts, start time.Time) {
	if mgr == nil || cfg.HistoryBackend == schema.NoneBackend {
		return
	}
	store := mgr.GetReportStore()
	if store == nil {
		return
	}

	if prev, err := store.GetLastRun(); err != nil {
		contract.LogWarn("trend lookup", err)
	} else {
		UpdateTrends(&run.report.Health, prev)
	}

	runID, err := store.BeginRun(start, cfg.SnapshotPath, cfg.AsOf)
	if err != nil {
		contract.LogWarn("begin run", err)
		return
	}

	scoreByUser := make(map[string]float64, len(run.scores))
	for _, s := range run.scores {
		scoreByUser[s.UserID] = s.Score
	}
	riskByUser := make(map[string]schema.RiskAssessment, len(run.report.Users))
	for _, u := range run.report.Users {
		riskByUser[u.UserID] = u.Risk
	}

	// Monthly rows reuse the weekly-derived risk; risk penalties are defined
	// on the weekly window.
	for _, r := range run.weekly {
		rec := userResultRecord(runID, r, schema.WeeklyPeriod, riskByUser[r.UserID], scoreByUser[r.UserID])
		if err := store.RecordUserResult(rec); err != nil {
			contract.LogWarn("record user result", err)
		}
	}
	for _, r := range run.monthly {
		rec := userResultRecord(runID, r, schema.MonthlyPeriod, riskByUser[r.UserID], scoreByUser[r.UserID])
		if err := store.RecordUserResult(rec); err != nil {
			contract.LogWarn("record user result", err)
		}
	}

	endTime := time.Now()
	durationMs := int32(endTime.Sub(start).Milliseconds())
	rec := schema.ReportRunRecord{
		RunID:              runID,
		StartTime:          start,
		EndTime:            &endTime,
		RunDurationMs:      &durationMs,
		SnapshotPath:       cfg.SnapshotPath,
		AsOf:               cfg.AsOf,
		TotalUsers:         int32(len(snapshot.Users)),
		TotalGoals:         int32(len(snapshot.Goals)),
		TotalKeyResults:    int32(len(snapshot.KeyResults)),
		TotalCheckpoints:   int32(len(snapshot.Checkpoints)),
		OKRHealthScore:     run.report.Health.OKRHealthScore,
		CheckinHealthScore: run.report.Health.CheckinHealthScore,
		OverallHealthScore: run.report.Health.OverallHealthScore,
		CriticalAlerts:     int32(len(run.report.Alerts.Critical)),
		ModerateAlerts:     int32(len(run.report.Alerts.Moderate)),
		LowAlerts:          int32(len(run.report.Alerts.Low)),
	}
	if err := store.EndRun(rec); err != nil {
		contract.LogWarn("end run", err)
	}
}

func userResultRecord(runID int64, r schema.ShiftResult, period schema.Period, risk schema.RiskAssessment, score float64) schema.UserResultRecord {
	return schema.UserResultRecord{
		RunID:             runID,
		UserID:            r.UserID,
		UserName:          r.UserName,
		Period:            string(period),
		CurrentValue:      r.CurrentValue,
		ReferenceValue:    r.ReferenceValue,
		AdjustedReference: r.AdjustedReference,
		RawShift:          r.RawShift,
		AdjustedShift:     r.AdjustedShift,
		ReferenceAdjusted: r.ReferenceAdjusted,
		ShiftAdjusted:     r.ShiftAdjusted,
		KRCount:           int32(r.KRCount),
		RiskScore:         int32(risk.Score),
		RiskLevel:         string(risk.Level),
		Score:             score,
	}
}
