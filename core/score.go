package core

import (
	"sort"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// Score component weights. The base keeps everyone visible on the board; the
// bonuses reward a steady end-of-month checkin cadence, owning goals at all,
// and actually moving them.
const (
	scoreBaseValue      = 0.5
	scoreCadenceBonus   = 0.5
	scoreOwnershipBonus = 1.0
)

// movementBonuses is the ascending first-match table keyed on the adjusted
// monthly shift. Anything below the first limit, negatives included, earns
// the floor bonus; clearing every limit earns movementBonusMax.
var movementBonuses = []struct {
	below float64
	bonus float64
}{
	{10, 0.15},
	{25, 0.25},
	{30, 0.5},
	{50, 0.75},
	{80, 1.25},
	{99, 1.5},
}

const movementBonusMax = 2.5

// ScoreEngine computes the composite engagement score per user.
type ScoreEngine struct {
	ix     *snapshotIndex
	ledger *ProgressLedger
	cal    *Calendar
	dir    *schema.UserDirectory
}

// NewScoreEngine indexes the snapshot for per-user scoring.
func NewScoreEngine(snapshot *schema.Snapshot, ledger *ProgressLedger, cal *Calendar, dir *schema.UserDirectory) *ScoreEngine {
	return &ScoreEngine{
		ix:     buildSnapshotIndex(snapshot),
		ledger: ledger,
		cal:    cal,
		dir:    dir,
	}
}

// ComputeAll scores every snapshot user, ordered by score descending with
// names breaking ties. monthlyShifts carries each user's adjusted monthly
// shift; pass nil when the calendar suppresses monthly computation and the
// movement lookup keys on zero.
func (e *ScoreEngine) ComputeAll(monthlyShifts map[string]float64) []schema.UserScore {
	scores := make([]schema.UserScore, 0, len(e.ix.users))
	for _, u := range e.ix.users {
		scores = append(scores, e.ComputeUser(u.ID, monthlyShifts[u.ID]))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].UserName < scores[j].UserName
	})
	return scores
}

// ComputeUser scores a single user given their adjusted monthly shift.
func (e *ScoreEngine) ComputeUser(userID string, monthlyShift float64) schema.UserScore {
	components := map[schema.ScoreComponent]float64{
		schema.ScoreBase: scoreBaseValue,
	}

	if e.cadenceQualifies(userID) {
		components[schema.ScoreCadence] = scoreCadenceBonus
	}
	if e.ix.ownsGoals(userID) {
		components[schema.ScoreOwnership] = scoreOwnershipBonus
	}
	components[schema.ScoreMovement] = movementBonus(monthlyShift)

	total := 0.0
	for _, v := range components {
		total += v
	}

	return schema.UserScore{
		UserID:     userID,
		UserName:   e.dir.UserName(userID),
		Score:      contract.Round2(total),
		Components: components,
	}
}

// cadenceQualifies reports whether the user earns the cadence bonus: the run
// falls in the month's last week partition and the user filed more than
// MonthlyCadenceMin checkins on their goals this calendar month.
func (e *ScoreEngine) cadenceQualifies(userID string) bool {
	if !e.cal.IsLastWeekOfMonth() {
		return false
	}
	monthStart := time.Date(e.cal.Now.Year(), e.cal.Now.Month(), 1, 0, 0, 0, 0, e.cal.Now.Location())
	count := e.ledger.CountBetween(e.ix.ownedKRIDs(userID), monthStart, e.cal.Now)
	return count > contract.MonthlyCadenceMin
}

// movementBonus resolves the first-match movement table.
func movementBonus(monthlyShift float64) float64 {
	for _, tier := range movementBonuses {
		if monthlyShift < tier.below {
			return tier.bonus
		}
	}
	return movementBonusMax
}
