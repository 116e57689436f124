package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okrpulse/okrpulse/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	fileSchema := parquet.SchemaOf(new(ReportRun))
	require.NotNil(t, fileSchema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"run_duration_ms",
		"snapshot_path",
		"as_of",
		"total_users",
		"total_goals",
		"total_key_results",
		"total_checkpoints",
		"okr_health_score",
		"checkin_health_score",
		"overall_health_score",
		"critical_alerts",
		"moderate_alerts",
		"low_alerts",
	}

	for _, colName := range expectedColumns {
		col, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestUserResultStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	fileSchema := parquet.SchemaOf(new(UserResult))
	require.NotNil(t, fileSchema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"user_id",
		"user_name",
		"period",
		"current_value",
		"reference_value",
		"adjusted_reference",
		"raw_shift",
		"adjusted_shift",
		"reference_adjusted",
		"shift_adjusted",
		"kr_count",
		"risk_score",
		"risk_level",
		"score",
	}

	for _, colName := range expectedColumns {
		col, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteReportRunsParquet(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "report_runs.parquet")

	// Get mock data
	data := MockFetchReportRuns()
	require.NotEmpty(t, data, "Mock data should not be empty")

	// Write data to Parquet file
	err := WriteReportRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[ReportRun](file)
	defer reader.Close()

	// Read all rows
	readData := make([]ReportRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	// Verify data integrity
	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].SnapshotPath, readData[i].SnapshotPath, "SnapshotPath should match")
		assert.Equal(t, data[i].TotalUsers, readData[i].TotalUsers, "TotalUsers should match")
		assert.Equal(t, data[i].TotalKeyResults, readData[i].TotalKeyResults, "TotalKeyResults should match")
		assert.InDelta(t, data[i].OverallHealthScore, readData[i].OverallHealthScore, 0.001, "OverallHealthScore should match")
		assert.Equal(t, data[i].CriticalAlerts, readData[i].CriticalAlerts, "CriticalAlerts should match")

		// Check nullable fields
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime, "EndTime should be nil")
		} else {
			require.NotNil(t, readData[i].EndTime, "EndTime should not be nil")
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond, "EndTime should match within nanosecond precision")
		}

		if data[i].RunDurationMs == nil {
			assert.Nil(t, readData[i].RunDurationMs, "RunDurationMs should be nil")
		} else {
			require.NotNil(t, readData[i].RunDurationMs, "RunDurationMs should not be nil")
			assert.Equal(t, *data[i].RunDurationMs, *readData[i].RunDurationMs, "RunDurationMs should match")
		}
	}
}

func TestWriteUserResultsParquet(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "user_results.parquet")

	// Get mock data
	data := MockFetchUserResults()
	require.NotEmpty(t, data, "Mock data should not be empty")

	// Write data to Parquet file
	err := WriteUserResultsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[UserResult](file)
	defer reader.Close()

	// Read all rows
	readData := make([]UserResult, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	// Verify data integrity
	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].UserID, readData[i].UserID, "UserID should match")
		assert.Equal(t, data[i].UserName, readData[i].UserName, "UserName should match")
		assert.Equal(t, data[i].Period, readData[i].Period, "Period should match")
		assert.InDelta(t, data[i].CurrentValue, readData[i].CurrentValue, 0.001, "CurrentValue should match")
		assert.InDelta(t, data[i].AdjustedReference, readData[i].AdjustedReference, 0.001, "AdjustedReference should match")
		assert.InDelta(t, data[i].AdjustedShift, readData[i].AdjustedShift, 0.001, "AdjustedShift should match")
		assert.Equal(t, data[i].ReferenceAdjusted, readData[i].ReferenceAdjusted, "ReferenceAdjusted should match")
		assert.Equal(t, data[i].ShiftAdjusted, readData[i].ShiftAdjusted, "ShiftAdjusted should match")
		assert.Equal(t, data[i].KRCount, readData[i].KRCount, "KRCount should match")
		assert.Equal(t, data[i].RiskScore, readData[i].RiskScore, "RiskScore should match")
		assert.Equal(t, data[i].RiskLevel, readData[i].RiskLevel, "RiskLevel should match")
		assert.InDelta(t, data[i].Score, readData[i].Score, 0.001, "Score should match")
	}
}

func TestWriteReportRunsParquet_EmptyData(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_report_runs.parquet")

	// Write empty data
	err := WriteReportRunsParquet([]ReportRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteUserResultsParquet_EmptyData(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_user_results.parquet")

	// Write empty data
	err := WriteUserResultsParquet([]UserResult{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteReportRunsParquet_InvalidPath(t *testing.T) {
	// Try to write to invalid path
	data := MockFetchReportRuns()
	err := WriteReportRunsParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestWriteUserResultsParquet_InvalidPath(t *testing.T) {
	// Try to write to invalid path
	data := MockFetchUserResults()
	err := WriteUserResultsParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestMockFetchReportRuns(t *testing.T) {
	data := MockFetchReportRuns()
	require.NotEmpty(t, data, "Mock data should not be empty")
	assert.Len(t, data, 3, "Should return 3 mock records")

	// Verify the structure of mock data
	assert.Equal(t, int64(1), data[0].RunID)
	assert.NotNil(t, data[0].EndTime, "First record should have EndTime")
	assert.NotNil(t, data[0].RunDurationMs, "First record should have RunDurationMs")

	// Third record should have nil nullable fields
	assert.Equal(t, int64(3), data[2].RunID)
	assert.Nil(t, data[2].EndTime, "Third record should have nil EndTime")
	assert.Nil(t, data[2].RunDurationMs, "Third record should have nil RunDurationMs")
}

func TestMockFetchUserResults(t *testing.T) {
	data := MockFetchUserResults()
	require.NotEmpty(t, data, "Mock data should not be empty")
	assert.Len(t, data, 3, "Should return 3 mock records")

	// Verify the structure of mock data
	assert.Equal(t, int64(1), data[0].RunID)
	assert.Equal(t, "u_1001", data[0].UserID)
	assert.Equal(t, "weekly", data[0].Period)

	// Third record exercises a different period and risk level
	assert.Equal(t, "monthly", data[2].Period)
	assert.Equal(t, "High", data[2].RiskLevel)
}

func TestConvertReportRunRecords(t *testing.T) {
	now := time.Now()
	endTime := now.Add(4 * time.Second)
	durationMs := int32(4000)

	records := []schema.ReportRunRecord{
		{
			RunID:              11,
			StartTime:          now,
			EndTime:            &endTime,
			RunDurationMs:      &durationMs,
			SnapshotPath:       "snap.json",
			AsOf:               now,
			TotalUsers:         5,
			TotalGoals:         9,
			TotalKeyResults:    20,
			TotalCheckpoints:   77,
			OKRHealthScore:     60,
			CheckinHealthScore: 80,
			OverallHealthScore: 70,
			CriticalAlerts:     1,
			ModerateAlerts:     2,
			LowAlerts:          0,
		},
		{
			RunID:        12,
			StartTime:    now,
			SnapshotPath: "snap2.json",
			AsOf:         now,
		},
	}

	rows := ConvertReportRunRecords(records)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(11), rows[0].RunID)
	assert.Equal(t, "snap.json", rows[0].SnapshotPath)
	assert.Equal(t, int32(5), rows[0].TotalUsers)
	assert.Equal(t, int32(20), rows[0].TotalKeyResults)
	assert.InDelta(t, 70.0, rows[0].OverallHealthScore, 0.001)
	require.NotNil(t, rows[0].EndTime)
	assert.Equal(t, endTime, *rows[0].EndTime)
	require.NotNil(t, rows[0].RunDurationMs)
	assert.Equal(t, int32(4000), *rows[0].RunDurationMs)

	// Incomplete run keeps nil nullable fields
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
}

func TestConvertUserResultRecords(t *testing.T) {
	records := []schema.UserResultRecord{
		{
			RunID:             11,
			UserID:            "u1",
			UserName:          "Ada",
			Period:            "weekly",
			CurrentValue:      70,
			ReferenceValue:    40,
			AdjustedReference: 40,
			RawShift:          30,
			AdjustedShift:     30,
			KRCount:           2,
			RiskScore:         25,
			RiskLevel:         "Low",
			Score:             2.5,
		},
	}

	rows := ConvertUserResultRecords(records)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(11), rows[0].RunID)
	assert.Equal(t, "u1", rows[0].UserID)
	assert.Equal(t, "Ada", rows[0].UserName)
	assert.Equal(t, "weekly", rows[0].Period)
	assert.InDelta(t, 30.0, rows[0].AdjustedShift, 0.001)
	assert.Equal(t, int32(2), rows[0].KRCount)
	assert.Equal(t, "Low", rows[0].RiskLevel)
	assert.InDelta(t, 2.5, rows[0].Score, 0.001)
}

func TestNullableFieldHandling(t *testing.T) {
	// Test that we can create structs with various combinations of null fields
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "nullable_test.parquet")

	now := time.Now()
	endTime := now.Add(1 * time.Hour)
	durationMs := int32(3600000)

	testData := []ReportRun{
		// All fields populated
		{
			RunID:         1,
			StartTime:     now,
			EndTime:       &endTime,
			RunDurationMs: &durationMs,
			SnapshotPath:  "snap.json",
			AsOf:          now,
			TotalUsers:    10,
		},
		// All nullable fields are nil
		{
			RunID:         2,
			StartTime:     now,
			EndTime:       nil,
			RunDurationMs: nil,
			SnapshotPath:  "snap.json",
			AsOf:          now,
			TotalUsers:    0,
		},
	}

	// Write and read back
	err := WriteReportRunsParquet(testData, outputPath)
	require.NoError(t, err)

	// Read back and verify
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ReportRun](file)
	defer reader.Close()

	readData := make([]ReportRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, len(testData), n)

	// Verify first record has all fields
	assert.NotNil(t, readData[0].EndTime)
	assert.NotNil(t, readData[0].RunDurationMs)

	// Verify second record has nil nullable fields
	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].RunDurationMs)
}

func TestTimestampPrecision(t *testing.T) {
	// Test that timestamps are stored with nanosecond precision
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "timestamp_test.parquet")

	// Create a timestamp with nanosecond precision
	now := time.Now()
	// Note: Parquet stores timestamps with nanosecond precision internally

	testData := []ReportRun{
		{
			RunID:         1,
			StartTime:     now,
			EndTime:       &now,
			RunDurationMs: nil,
			SnapshotPath:  "snap.json",
			AsOf:          now,
		},
	}

	// Write and read back
	err := WriteReportRunsParquet(testData, outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ReportRun](file)
	defer reader.Close()

	readData := make([]ReportRun, reader.NumRows())
	_, err = reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}

	// Verify timestamp precision (should be within nanosecond)
	assert.WithinDuration(t, testData[0].StartTime, readData[0].StartTime, time.Nanosecond)
	assert.WithinDuration(t, *testData[0].EndTime, *readData[0].EndTime, time.Nanosecond)
}
