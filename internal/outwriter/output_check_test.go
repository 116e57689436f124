package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCheckResult(passed bool) schema.CheckResult {
	return schema.CheckResult{
		Passed: passed,
		Items: []schema.CheckItem{
			{Name: "overall health", Passed: true, Actual: 82.5, Threshold: 60},
			{Name: "critical alerts", Passed: passed, Actual: 2, Threshold: 0},
		},
	}
}

func TestWriteCheckText(t *testing.T) {
	cfg := &contract.Config{Precision: 2}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeCheckText(sampleCheckResult(false), cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "✓ overall health (actual 82.50, threshold 60.00)")
	assert.Contains(t, out, "✗ critical alerts")
	assert.Contains(t, out, "FAILED: 1 of 2 checks passed")
}

func TestWriteCheckTextPassed(t *testing.T) {
	cfg := &contract.Config{Precision: 1}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeCheckText(sampleCheckResult(true), cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "PASSED: 2 of 2 checks passed")
}

func TestWriteJSONResultsForCheck(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForCheck(&buf, sampleCheckResult(false))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["passed"])

	items, ok := decoded["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "overall health", first["name"])
	assert.Equal(t, 82.5, first["actual"])
}

func TestWriteCSVResultsForCheck(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	err := writeCSVResultsForCheck(&buf, sampleCheckResult(true), fmtFloat)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"gate", "passed", "actual", "threshold"}, records[0])
	assert.Equal(t, "true", records[1][1])
	assert.Equal(t, "2.00", records[2][2])
}
