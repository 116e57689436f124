package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/okrpulse/okrpulse/schema"
)

// ProgressLedger indexes checkpoints per key result in ascending time order
// so baseline lookups stay cheap however often the reconciler asks. A missing
// history is always a zero baseline, never an error: users who have not
// checked in yet measure from zero.
type ProgressLedger struct {
	byKR map[string][]schema.Checkpoint
}

// BuildLedger indexes the snapshot's checkpoints by key result. Checkpoints
// whose kr_id has no KeyResult in the snapshot are dropped here; they cannot
// contribute to any figure downstream.
func BuildLedger(snapshot *schema.Snapshot) *ProgressLedger {
	known := make(map[string]struct{}, len(snapshot.KeyResults))
	for _, kr := range snapshot.KeyResults {
		known[kr.ID] = struct{}{}
	}

	ledger := &ProgressLedger{byKR: make(map[string][]schema.Checkpoint)}
	for _, cp := range snapshot.Checkpoints {
		if _, ok := known[cp.KRID]; !ok {
			continue
		}
		ledger.byKR[cp.KRID] = append(ledger.byKR[cp.KRID], cp)
	}
	for krID := range ledger.byKR {
		entries := ledger.byKR[krID]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp < entries[j].Timestamp
		})
	}
	return ledger
}

// LatestValueAt returns the most recent checkpoint value at or before the
// given instant, searching the full history. Zero when none qualifies.
func (l *ProgressLedger) LatestValueAt(krID string, instant time.Time) float64 {
	entries := l.byKR[krID]
	cutoff := instant.Unix()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Timestamp <= cutoff {
			return entries[i].Value
		}
	}
	return 0
}

// LatestValueInQuarter returns the most recent checkpoint value at or before
// the given instant, considering only checkpoints on or after quarterStart.
// Zero when none qualifies.
func (l *ProgressLedger) LatestValueInQuarter(krID string, quarterStart, instant time.Time) float64 {
	entries := l.byKR[krID]
	cutoff := instant.Unix()
	floor := quarterStart.Unix()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Timestamp > cutoff {
			continue
		}
		if entries[i].Timestamp < floor {
			break // ascending order, nothing earlier can qualify either
		}
		return entries[i].Value
	}
	return 0
}

// CountBetween returns how many checkpoints across the given key results
// fall inside [from, to], bounds inclusive.
func (l *ProgressLedger) CountBetween(krIDs []string, from, to time.Time) int {
	lo, hi := from.Unix(), to.Unix()
	count := 0
	for _, krID := range krIDs {
		for _, cp := range l.byKR[krID] {
			if cp.Timestamp >= lo && cp.Timestamp <= hi {
				count++
			}
		}
	}
	return count
}

// CountAll returns the total number of checkpoints across the given key results.
func (l *ProgressLedger) CountAll(krIDs []string) int {
	count := 0
	for _, krID := range krIDs {
		count += len(l.byKR[krID])
	}
	return count
}

// DistinctWeeks returns the number of distinct ISO year-week keys seen across
// the given key results' checkpoints.
func (l *ProgressLedger) DistinctWeeks(krIDs []string) int {
	weeks := make(map[string]struct{})
	for _, krID := range krIDs {
		for _, cp := range l.byKR[krID] {
			year, week := cp.Time().UTC().ISOWeek()
			weeks[fmt.Sprintf("%d-%02d", year, week)] = struct{}{}
		}
	}
	return len(weeks)
}

// EarliestTimestamp returns the time of the oldest checkpoint in the ledger,
// or the zero time when the ledger holds nothing.
func (l *ProgressLedger) EarliestTimestamp() time.Time {
	var earliest int64
	found := false
	for _, entries := range l.byKR {
		if len(entries) == 0 {
			continue
		}
		if !found || entries[0].Timestamp < earliest {
			earliest = entries[0].Timestamp
			found = true
		}
	}
	if !found {
		return time.Time{}
	}
	return time.Unix(earliest, 0)
}
