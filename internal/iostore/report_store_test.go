package iostore

import (
	"testing"
	"time"

	"github.com/okrpulse/okrpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedRunRecord(runID int64, start time.Time, overall float64) schema.ReportRunRecord {
	end := start.Add(2 * time.Second)
	durationMs := int32(end.Sub(start).Milliseconds())
	return schema.ReportRunRecord{
		RunID:              runID,
		StartTime:          start,
		EndTime:            &end,
		RunDurationMs:      &durationMs,
		SnapshotPath:       "snapshot.json",
		AsOf:               start,
		TotalUsers:         4,
		TotalGoals:         6,
		TotalKeyResults:    12,
		TotalCheckpoints:   30,
		OKRHealthScore:     62.5,
		CheckinHealthScore: 71.4,
		OverallHealthScore: overall,
		CriticalAlerts:     1,
		ModerateAlerts:     2,
		LowAlerts:          3,
	}
}

func sampleUserResult(runID int64, userID string) schema.UserResultRecord {
	return schema.UserResultRecord{
		RunID:             runID,
		UserID:            userID,
		UserName:          "User " + userID,
		Period:            string(schema.WeeklyPeriod),
		CurrentValue:      70,
		ReferenceValue:    40,
		AdjustedReference: 40,
		RawShift:          30,
		AdjustedShift:     30,
		ReferenceAdjusted: false,
		ShiftAdjusted:     false,
		KRCount:           3,
		RiskScore:         25,
		RiskLevel:         string(schema.LowRisk),
		Score:             2.5,
	}
}

func TestReportStore_NoneBackend(t *testing.T) {
	store, err := NewReportStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	// BeginRun should return 0 for NoneBackend
	runID, err := store.BeginRun(time.Now(), "snapshot.json", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	// Other operations should not error
	assert.NoError(t, store.EndRun(completedRunRecord(1, time.Now(), 50)))
	assert.NoError(t, store.RecordUserResult(sampleUserResult(1, "u1")))

	last, err := store.GetLastRun()
	assert.NoError(t, err)
	assert.Nil(t, last)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

func TestReportStore_SQLiteRoundTrip(t *testing.T) {
	store, err := NewReportStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	start := time.Date(2025, time.February, 7, 9, 0, 0, 0, time.UTC)
	asOf := time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun(start, "q1_snapshot.json", asOf)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordUserResult(sampleUserResult(runID, "u1")))
	require.NoError(t, store.RecordUserResult(sampleUserResult(runID, "u2")))

	rec := completedRunRecord(runID, start, 66.9)
	rec.SnapshotPath = "q1_snapshot.json"
	rec.AsOf = asOf
	require.NoError(t, store.EndRun(rec))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, runID, got.RunID)
	assert.True(t, got.StartTime.Equal(start))
	assert.True(t, got.AsOf.Equal(asOf))
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(start.Add(2*time.Second)))
	require.NotNil(t, got.RunDurationMs)
	assert.Equal(t, int32(2000), *got.RunDurationMs)
	assert.Equal(t, "q1_snapshot.json", got.SnapshotPath)
	assert.Equal(t, int32(4), got.TotalUsers)
	assert.Equal(t, int32(12), got.TotalKeyResults)
	assert.Equal(t, 66.9, got.OverallHealthScore)
	assert.Equal(t, int32(1), got.CriticalAlerts)

	results, err := store.GetAllUserResults()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "u1", results[0].UserID)
	assert.Equal(t, "u2", results[1].UserID)
	assert.Equal(t, 30.0, results[0].AdjustedShift)
	assert.Equal(t, string(schema.LowRisk), results[0].RiskLevel)
	assert.False(t, results[0].ReferenceAdjusted)
	assert.Equal(t, 2.5, results[0].Score)
}

func TestReportStore_GetLastRun(t *testing.T) {
	store, err := NewReportStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Empty store has no last run
	last, err := store.GetLastRun()
	require.NoError(t, err)
	assert.Nil(t, last)

	start := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

	// First run completes
	firstID, err := store.BeginRun(start, "one.json", start)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(completedRunRecord(firstID, start, 55.0)))

	// Second run completes later
	secondID, err := store.BeginRun(start.Add(time.Hour), "two.json", start)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(completedRunRecord(secondID, start.Add(time.Hour), 61.0)))

	// Third run never completes; it must not be returned
	_, err = store.BeginRun(start.Add(2*time.Hour), "three.json", start)
	require.NoError(t, err)

	last, err = store.GetLastRun()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, secondID, last.RunID)
	assert.Equal(t, 61.0, last.OverallHealthScore)
}

func TestReportStore_GetStatus(t *testing.T) {
	store, err := NewReportStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Empty store
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[reportRunsTable])

	// Populate two runs with one user result each
	start := time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)
	for i := range 2 {
		runID, err := store.BeginRun(start.Add(time.Duration(i)*time.Hour), "snap.json", start)
		require.NoError(t, err)
		require.NoError(t, store.RecordUserResult(sampleUserResult(runID, "u1")))
		require.NoError(t, store.EndRun(completedRunRecord(runID, start.Add(time.Duration(i)*time.Hour), 60.0)))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, int64(2), status.LastRunID)
	assert.True(t, status.LastRunTime.Equal(start.Add(time.Hour)))
	assert.True(t, status.OldestRunTime.Equal(start))
	assert.Equal(t, int64(2), status.TableSizes[reportRunsTable])
	assert.Equal(t, int64(2), status.TableSizes[userResultsTable])
}

func TestReportStore_Clear(t *testing.T) {
	store, err := NewReportStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now()
	runID, err := store.BeginRun(start, "snap.json", start)
	require.NoError(t, err)
	require.NoError(t, store.RecordUserResult(sampleUserResult(runID, "u1")))
	require.NoError(t, store.EndRun(completedRunRecord(runID, start, 60.0)))

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)

	results, err := store.GetAllUserResults()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReportStore_DuplicateUserResult(t *testing.T) {
	store, err := NewReportStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now()
	runID, err := store.BeginRun(start, "snap.json", start)
	require.NoError(t, err)

	rec := sampleUserResult(runID, "u1")
	require.NoError(t, store.RecordUserResult(rec))

	// Same (run, user, period) violates the primary key
	err = store.RecordUserResult(rec)
	assert.Error(t, err)

	// A different period for the same user is fine
	rec.Period = string(schema.MonthlyPeriod)
	assert.NoError(t, store.RecordUserResult(rec))
}

func TestReportStore_UnsupportedBackend(t *testing.T) {
	_, err := NewReportStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		backend   schema.DatabaseBackend
		want      string
	}{
		{"postgresql", reportRunsTable, schema.PostgreSQLBackend, `"okrpulse_report_runs"`},
		{"mysql", reportRunsTable, schema.MySQLBackend, "`okrpulse_report_runs`"},
		{"sqlite", reportRunsTable, schema.SQLiteBackend, `"okrpulse_report_runs"`},
		{"none", userResultsTable, schema.NoneBackend, `"okrpulse_user_results"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quoteTableName(tt.tableName, tt.backend)
			assert.Equal(t, tt.want, got, "quoteTableName(%q, %q)", tt.tableName, tt.backend)
		})
	}
}
