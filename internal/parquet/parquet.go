// Package parquet provides data structures and functions for exporting report
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/okrpulse/okrpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun represents a single report run with metadata.
// This struct maps to the okrpulse_report_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this report run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// SnapshotPath is the snapshot file the run was computed from
	SnapshotPath string `parquet:"snapshot_path,snappy"`

	// AsOf is the reference instant the run's calendar was anchored on
	AsOf time.Time `parquet:"as_of,snappy"`

	// TotalUsers is the number of users in the snapshot
	TotalUsers int32 `parquet:"total_users,snappy"`

	// TotalGoals is the number of goals in the snapshot
	TotalGoals int32 `parquet:"total_goals,snappy"`

	// TotalKeyResults is the number of key results in the snapshot
	TotalKeyResults int32 `parquet:"total_key_results,snappy"`

	// TotalCheckpoints is the number of checkpoints in the snapshot
	TotalCheckpoints int32 `parquet:"total_checkpoints,snappy"`

	// OKRHealthScore is the percentage of users with positive weekly shift
	OKRHealthScore float64 `parquet:"okr_health_score,snappy"`

	// CheckinHealthScore is the percentage of users actively checking in
	CheckinHealthScore float64 `parquet:"checkin_health_score,snappy"`

	// OverallHealthScore is the mean of the OKR and checkin health scores
	OverallHealthScore float64 `parquet:"overall_health_score,snappy"`

	// CriticalAlerts is the number of critical alerts the run raised
	CriticalAlerts int32 `parquet:"critical_alerts,snappy"`

	// ModerateAlerts is the number of moderate alerts the run raised
	ModerateAlerts int32 `parquet:"moderate_alerts,snappy"`

	// LowAlerts is the number of low alerts the run raised
	LowAlerts int32 `parquet:"low_alerts,snappy"`
}

// UserResult represents one user's reconciled figures within a report run.
// This struct maps to the okrpulse_user_results database table.
type UserResult struct {
	// RunID references the parent report run
	RunID int64 `parquet:"run_id,snappy"`

	// UserID is the platform identifier of the user
	UserID string `parquet:"user_id,snappy"`

	// UserName is the display name of the user
	UserName string `parquet:"user_name,snappy"`

	// Period is the reporting window the shift was computed over
	Period string `parquet:"period,snappy"`

	// CurrentValue is the reconciled completion value at the reference instant
	CurrentValue float64 `parquet:"current_value,snappy"`

	// ReferenceValue is the raw completion value at the comparison instant
	ReferenceValue float64 `parquet:"reference_value,snappy"`

	// AdjustedReference is the reference after reconciliation rules applied
	AdjustedReference float64 `parquet:"adjusted_reference,snappy"`

	// RawShift is current minus raw reference
	RawShift float64 `parquet:"raw_shift,snappy"`

	// AdjustedShift is the reconciled shift reported to users
	AdjustedShift float64 `parquet:"adjusted_shift,snappy"`

	// ReferenceAdjusted marks that the reference was corrected during reconciliation
	ReferenceAdjusted bool `parquet:"reference_adjusted,snappy"`

	// ShiftAdjusted marks that the shift was corrected during reconciliation
	ShiftAdjusted bool `parquet:"shift_adjusted,snappy"`

	// KRCount is the number of key results contributing to the figures
	KRCount int32 `parquet:"kr_count,snappy"`

	// RiskScore is the accumulated risk penalty (0-100)
	RiskScore int32 `parquet:"risk_score,snappy"`

	// RiskLevel is the risk classification derived from the score
	RiskLevel string `parquet:"risk_level,snappy"`

	// Score is the composite engagement score
	Score float64 `parquet:"score,snappy"`
}

// WriteReportRunsParquet writes a slice of ReportRun structs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ReportRun struct tags
	writer := parquet.NewGenericWriter[ReportRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteUserResultsParquet writes a slice of UserResult structs to a Parquet file.
func WriteUserResultsParquet(data []UserResult, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the UserResult struct tags
	writer := parquet.NewGenericWriter[UserResult](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchReportRuns generates sample ReportRun data for demonstration.
func MockFetchReportRuns() []ReportRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := startTime1.Add(3 * time.Second)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := startTime2.Add(5 * time.Second)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3 and durationMs3 are nil to demonstrate nullable fields

	return []ReportRun{
		{
			RunID:              1,
			StartTime:          startTime1,
			EndTime:            &endTime1,
			RunDurationMs:      &durationMs1,
			SnapshotPath:       "exports/q1_week6.json",
			AsOf:               startTime1,
			TotalUsers:         48,
			TotalGoals:         112,
			TotalKeyResults:    265,
			TotalCheckpoints:   1930,
			OKRHealthScore:     62.5,
			CheckinHealthScore: 70.8,
			OverallHealthScore: 66.7,
			CriticalAlerts:     2,
			ModerateAlerts:     5,
			LowAlerts:          3,
		},
		{
			RunID:              2,
			StartTime:          startTime2,
			EndTime:            &endTime2,
			RunDurationMs:      &durationMs2,
			SnapshotPath:       "exports/q1_week5.json",
			AsOf:               startTime2,
			TotalUsers:         47,
			TotalGoals:         108,
			TotalKeyResults:    255,
			TotalCheckpoints:   1720,
			OKRHealthScore:     58.3,
			CheckinHealthScore: 66.0,
			OverallHealthScore: 62.2,
			CriticalAlerts:     3,
			ModerateAlerts:     6,
			LowAlerts:          4,
		},
		{
			RunID:         3,
			StartTime:     startTime3,
			EndTime:       nil, // Still running - nullable field
			RunDurationMs: nil, // Not yet calculated - nullable field
			SnapshotPath:  "exports/q1_week7.json",
			AsOf:          startTime3,
		},
	}
}

// MockFetchUserResults generates sample UserResult data for demonstration.
func MockFetchUserResults() []UserResult {
	return []UserResult{
		{
			RunID:             1,
			UserID:            "u_1001",
			UserName:          "Ada Osei",
			Period:            "weekly",
			CurrentValue:      70,
			ReferenceValue:    40,
			AdjustedReference: 40,
			RawShift:          30,
			AdjustedShift:     30,
			KRCount:           4,
			RiskScore:         0,
			RiskLevel:         "Low",
			Score:             2.5,
		},
		{
			RunID:             1,
			UserID:            "u_1002",
			UserName:          "Ben Alvarez",
			Period:            "weekly",
			CurrentValue:      55,
			ReferenceValue:    80,
			AdjustedReference: 52,
			RawShift:          -25,
			AdjustedShift:     3,
			ReferenceAdjusted: true,
			KRCount:           3,
			RiskScore:         25,
			RiskLevel:         "Low",
			Score:             1.65,
		},
		{
			RunID:         2,
			UserID:        "u_1003",
			UserName:      "Caleb Ng",
			Period:        "monthly",
			CurrentValue:  12,
			RawShift:      -8,
			AdjustedShift: -8,
			ShiftAdjusted: true,
			KRCount:       1,
			RiskScore:     75,
			RiskLevel:     "High",
			Score:         0.65,
		},
	}
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:              record.RunID,
			StartTime:          record.StartTime,
			EndTime:            record.EndTime,
			RunDurationMs:      record.RunDurationMs,
			SnapshotPath:       record.SnapshotPath,
			AsOf:               record.AsOf,
			TotalUsers:         record.TotalUsers,
			TotalGoals:         record.TotalGoals,
			TotalKeyResults:    record.TotalKeyResults,
			TotalCheckpoints:   record.TotalCheckpoints,
			OKRHealthScore:     record.OKRHealthScore,
			CheckinHealthScore: record.CheckinHealthScore,
			OverallHealthScore: record.OverallHealthScore,
			CriticalAlerts:     record.CriticalAlerts,
			ModerateAlerts:     record.ModerateAlerts,
			LowAlerts:          record.LowAlerts,
		}
	}
	return result
}

// ConvertUserResultRecords converts schema.UserResultRecord to UserResult for Parquet export.
func ConvertUserResultRecords(records []schema.UserResultRecord) []UserResult {
	result := make([]UserResult, len(records))
	for i, record := range records {
		result[i] = UserResult{
			RunID:             record.RunID,
			UserID:            record.UserID,
			UserName:          record.UserName,
			Period:            record.Period,
			CurrentValue:      record.CurrentValue,
			ReferenceValue:    record.ReferenceValue,
			AdjustedReference: record.AdjustedReference,
			RawShift:          record.RawShift,
			AdjustedShift:     record.AdjustedShift,
			ReferenceAdjusted: record.ReferenceAdjusted,
			ShiftAdjusted:     record.ShiftAdjusted,
			KRCount:           record.KRCount,
			RiskScore:         record.RiskScore,
			RiskLevel:         record.RiskLevel,
			Score:             record.Score,
		}
	}
	return result
}
