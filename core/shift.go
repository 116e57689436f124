package core

import (
	"sort"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// ShiftReconciler computes the reconciled progress shift for every user over
// a reporting period. Three aggregates drive it, all built from the same
// snapshot but through different windows:
//
//   - current value: the platform's own current_value fields, averaged per
//     goal and then across the user's goals
//   - reference value: the latest checkpoint at or before the reference
//     instant, unbounded history
//   - raw shift: per (goal, key result) pair, current minus the latest
//     checkpoint inside the running quarter
//
// Checkins race the snapshot fetch, so the three roll-ups disagree in
// well-known ways; the reconciliation rules restore a consistent story
// without discarding the raw figures.
type ShiftReconciler struct {
	ix     *snapshotIndex
	ledger *ProgressLedger
	cal    *Calendar
	dir    *schema.UserDirectory
}

// NewShiftReconciler indexes the snapshot for per-user shift computation.
func NewShiftReconciler(snapshot *schema.Snapshot, ledger *ProgressLedger, cal *Calendar, dir *schema.UserDirectory) *ShiftReconciler {
	return &ShiftReconciler{
		ix:     buildSnapshotIndex(snapshot),
		ledger: ledger,
		cal:    cal,
		dir:    dir,
	}
}

// ComputeAll returns one result per snapshot user, ordered by adjusted shift
// descending with names breaking ties.
func (r *ShiftReconciler) ComputeAll(period schema.Period) []schema.ShiftResult {
	results := make([]schema.ShiftResult, 0, len(r.ix.users))
	for _, u := range r.ix.users {
		results = append(results, r.ComputeUser(u.ID, period))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AdjustedShift != results[j].AdjustedShift {
			return results[i].AdjustedShift > results[j].AdjustedShift
		}
		return results[i].UserName < results[j].UserName
	})
	return results
}

// ComputeUser computes the reconciled shift for a single user.
func (r *ShiftReconciler) ComputeUser(userID string, period schema.Period) schema.ShiftResult {
	refInstant := r.referenceInstant(period)
	quarterStart := r.cal.QuarterStart()
	goals := r.ix.goalsByOwner[userID]

	result := schema.ShiftResult{
		UserID:    userID,
		UserName:  r.dir.UserName(userID),
		Period:    period,
		GoalCount: len(goals),
	}

	// Goal-level means for current and reference values. A goal with no key
	// results contributes zero but still counts toward the denominator.
	var sumCurrent, sumReference float64
	type pairKey struct{ goalID, krID string }
	type pairDelta struct {
		sum float64
		n   int
	}
	deltas := make(map[pairKey]*pairDelta)

	for _, goal := range goals {
		krs := r.ix.krsByGoal[goal.ID]
		sumCurrent += goalMean(krs, func(kr schema.KeyResult) float64 {
			return kr.CurrentValue
		})
		sumReference += goalMean(krs, func(kr schema.KeyResult) float64 {
			return r.ledger.LatestValueAt(kr.ID, refInstant)
		})

		// Raw shift works on (goal, key result) pairs; duplicate rows for the
		// same pair average into one contribution instead of double counting.
		for _, kr := range krs {
			base := r.ledger.LatestValueInQuarter(kr.ID, quarterStart, refInstant)
			key := pairKey{goal.ID, kr.ID}
			d := deltas[key]
			if d == nil {
				d = &pairDelta{}
				deltas[key] = d
			}
			d.sum += kr.CurrentValue - base
			d.n++
		}
	}

	result.KRCount = len(deltas)

	var current, reference, rawShift float64
	if len(goals) > 0 {
		current = sumCurrent / float64(len(goals))
		reference = sumReference / float64(len(goals))
	}
	if len(deltas) > 0 {
		total := 0.0
		for _, d := range deltas {
			total += d.sum / float64(d.n)
		}
		rawShift = total / float64(len(deltas))
	}

	result.CurrentValue = contract.Round2(current)
	result.ReferenceValue = contract.Round2(reference)
	result.RawShift = contract.Round2(rawShift)
	result.LegacyShift = contract.Round2(result.CurrentValue - result.ReferenceValue)
	result.AdjustedShift = result.RawShift
	result.AdjustedReference = result.ReferenceValue

	switch {
	case period == schema.MonthlyPeriod && r.quarterResetWindow():
		// Weeks 4-5 of a quarter-start month: the previous month end lies in
		// the old quarter, so the baseline resets to zero and the whole
		// current value counts as this quarter's movement.
		result.AdjustedShift = result.CurrentValue
		result.AdjustedReference = 0
		result.ReferenceAdjusted = true
		result.ShiftAdjusted = true
	case result.ReferenceValue > result.CurrentValue:
		// Checkins filed after the snapshot values were read: the reference
		// overshoots. Rebuild it from the raw shift so current minus
		// reference equals the shift again.
		result.AdjustedReference = contract.Round2(result.CurrentValue - result.RawShift)
		result.ReferenceAdjusted = true
	case result.ReferenceValue < result.CurrentValue && result.LegacyShift != result.RawShift:
		// Plausible ordering but inconsistent magnitude: the direct delta
		// between current and reference wins over the per-pair roll-up.
		result.AdjustedShift = result.LegacyShift
		result.ShiftAdjusted = true
	}

	return result
}

// referenceInstant maps a period to the instant its baseline is read at.
func (r *ShiftReconciler) referenceInstant(period schema.Period) time.Time {
	if period == schema.MonthlyPeriod {
		return r.cal.LastMonthEnd()
	}
	return r.cal.LastFriday()
}

// quarterResetWindow reports whether monthly baselines reset right now.
func (r *ShiftReconciler) quarterResetWindow() bool {
	return isQuarterStartMonth(r.cal.Now.Month()) && r.cal.ShouldCalculateMonthlyShift()
}

// goalMean returns the mean of one value per distinct key result id. The
// first row wins when an id repeats; a goal with no key results is zero.
func goalMean(krs []schema.KeyResult, value func(schema.KeyResult) float64) float64 {
	seen := make(map[string]struct{}, len(krs))
	sum := 0.0
	n := 0
	for _, kr := range krs {
		if _, dup := seen[kr.ID]; dup {
			continue
		}
		seen[kr.ID] = struct{}{}
		sum += value(kr)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
