package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okrpulse/okrpulse/schema"
)

func checkpointAt(krID string, day time.Time, value float64) schema.Checkpoint {
	return schema.Checkpoint{KRID: krID, UserID: "u1", Timestamp: day.Unix(), Value: value}
}

// janSnapshot reproduces the canonical quarter scenario: one key result with
// checkins 10 on Jan 1, 40 on Jan 15 and 70 on Jan 31.
func janSnapshot() *schema.Snapshot {
	return &schema.Snapshot{
		KeyResults: []schema.KeyResult{
			{ID: "K1", GoalID: "g1", CurrentValue: 70},
		},
		Checkpoints: []schema.Checkpoint{
			checkpointAt("K1", date(2025, time.January, 31), 70),
			checkpointAt("K1", date(2025, time.January, 1), 10),
			checkpointAt("K1", date(2025, time.January, 15), 40),
		},
	}
}

func TestLatestValueAt(t *testing.T) {
	ledger := BuildLedger(janSnapshot())

	tests := []struct {
		name    string
		instant time.Time
		want    float64
	}{
		{"before any checkpoint", date(2024, time.December, 31), 0},
		{"exactly on first checkpoint", date(2025, time.January, 1), 10},
		{"between checkpoints", date(2025, time.January, 10), 10},
		{"reference friday jan 24", time.Date(2025, time.January, 24, 23, 59, 59, 0, time.UTC), 40},
		{"after all checkpoints", date(2025, time.February, 10), 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.LatestValueAt("K1", tt.instant))
		})
	}

	t.Run("unknown key result is zero", func(t *testing.T) {
		assert.Zero(t, ledger.LatestValueAt("missing", date(2025, time.June, 1)))
	})
}

func TestLatestValueInQuarter(t *testing.T) {
	snapshot := janSnapshot()
	// A pre-quarter checkpoint that must stay invisible to the bounded lookup.
	snapshot.Checkpoints = append(snapshot.Checkpoints, checkpointAt("K1", date(2024, time.December, 20), 95))
	ledger := BuildLedger(snapshot)

	quarterStart := date(2025, time.January, 1)

	t.Run("bounded lookup ignores previous quarter", func(t *testing.T) {
		instant := time.Date(2025, time.January, 24, 23, 59, 59, 0, time.UTC)
		assert.Equal(t, 40.0, ledger.LatestValueInQuarter("K1", quarterStart, instant))
	})

	t.Run("no checkpoint inside window is zero", func(t *testing.T) {
		// Unbounded sees the December value, bounded does not.
		instant := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
		assert.Equal(t, 95.0, ledger.LatestValueAt("K1", instant))
		assert.Zero(t, ledger.LatestValueInQuarter("K1", quarterStart, instant))
	})

	t.Run("window start is inclusive", func(t *testing.T) {
		assert.Equal(t, 10.0, ledger.LatestValueInQuarter("K1", quarterStart, date(2025, time.January, 2)))
	})
}

func TestBuildLedgerDropsOrphanCheckpoints(t *testing.T) {
	snapshot := &schema.Snapshot{
		KeyResults: []schema.KeyResult{{ID: "K1", GoalID: "g1"}},
		Checkpoints: []schema.Checkpoint{
			checkpointAt("K1", date(2025, time.January, 1), 10),
			checkpointAt("ghost", date(2025, time.January, 2), 50),
		},
	}
	ledger := BuildLedger(snapshot)

	assert.Equal(t, 1, ledger.CountAll([]string{"K1", "ghost"}))
	assert.Zero(t, ledger.LatestValueAt("ghost", date(2025, time.June, 1)))
}

func TestCountBetween(t *testing.T) {
	ledger := BuildLedger(janSnapshot())
	krIDs := []string{"K1"}

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"full month", date(2025, time.January, 1), date(2025, time.January, 31), 3},
		{"bounds inclusive", date(2025, time.January, 15), date(2025, time.January, 15), 1},
		{"empty window", date(2025, time.February, 1), date(2025, time.February, 28), 0},
		{"partial window", date(2025, time.January, 2), date(2025, time.January, 31), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.CountBetween(krIDs, tt.from, tt.to))
		})
	}
}

func TestDistinctWeeks(t *testing.T) {
	snapshot := janSnapshot()
	// Same ISO week as the Jan 15 entry; must not add a new week key.
	snapshot.Checkpoints = append(snapshot.Checkpoints, checkpointAt("K1", date(2025, time.January, 16), 42))
	ledger := BuildLedger(snapshot)

	assert.Equal(t, 3, ledger.DistinctWeeks([]string{"K1"}))
	assert.Zero(t, ledger.DistinctWeeks([]string{"missing"}))
}

func TestEarliestTimestamp(t *testing.T) {
	t.Run("oldest entry wins", func(t *testing.T) {
		ledger := BuildLedger(janSnapshot())
		assert.Equal(t, date(2025, time.January, 1).Unix(), ledger.EarliestTimestamp().Unix())
	})

	t.Run("empty ledger yields zero time", func(t *testing.T) {
		ledger := BuildLedger(&schema.Snapshot{})
		assert.True(t, ledger.EarliestTimestamp().IsZero())
	})
}

func TestLedgerOrderIndependence(t *testing.T) {
	forward := janSnapshot()
	reversed := janSnapshot()
	for i, j := 0, len(reversed.Checkpoints)-1; i < j; i, j = i+1, j-1 {
		reversed.Checkpoints[i], reversed.Checkpoints[j] = reversed.Checkpoints[j], reversed.Checkpoints[i]
	}

	a := BuildLedger(forward)
	b := BuildLedger(reversed)
	instant := date(2025, time.February, 1)

	require.Equal(t, a.LatestValueAt("K1", instant), b.LatestValueAt("K1", instant))
	require.Equal(t, a.EarliestTimestamp(), b.EarliestTimestamp())
}

func BenchmarkLatestValueAt(b *testing.B) {
	snapshot := &schema.Snapshot{
		KeyResults: []schema.KeyResult{{ID: "K1", GoalID: "g1"}},
	}
	base := date(2024, time.January, 1)
	for i := range 500 {
		snapshot.Checkpoints = append(snapshot.Checkpoints,
			checkpointAt("K1", base.AddDate(0, 0, i), float64(i)))
	}
	ledger := BuildLedger(snapshot)
	instant := base.AddDate(0, 6, 0)

	for b.Loop() {
		ledger.LatestValueAt("K1", instant)
	}
}
