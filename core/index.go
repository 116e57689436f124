package core

import (
	"sort"

	"github.com/okrpulse/okrpulse/schema"
)

// snapshotIndex holds the ownership lookups every per-user computation needs.
// Snapshots arrive as flat arrays and may carry duplicate rows, so the index
// collapses users and goals by id up front; key result rows are kept as-is
// because the reconciler averages duplicates per metric.
type snapshotIndex struct {
	users        []schema.User
	goalsByOwner map[string][]schema.Goal
	krsByGoal    map[string][]schema.KeyResult
}

func buildSnapshotIndex(snapshot *schema.Snapshot) *snapshotIndex {
	ix := &snapshotIndex{
		goalsByOwner: make(map[string][]schema.Goal),
		krsByGoal:    make(map[string][]schema.KeyResult),
	}

	seenUsers := make(map[string]struct{}, len(snapshot.Users))
	for _, u := range snapshot.Users {
		if _, dup := seenUsers[u.ID]; dup {
			continue
		}
		seenUsers[u.ID] = struct{}{}
		ix.users = append(ix.users, u)
	}

	seenGoals := make(map[string]struct{}, len(snapshot.Goals))
	for _, g := range snapshot.Goals {
		if _, dup := seenGoals[g.ID]; dup {
			continue
		}
		seenGoals[g.ID] = struct{}{}
		ix.goalsByOwner[g.OwnerUserID] = append(ix.goalsByOwner[g.OwnerUserID], g)
	}

	for _, kr := range snapshot.KeyResults {
		ix.krsByGoal[kr.GoalID] = append(ix.krsByGoal[kr.GoalID], kr)
	}

	return ix
}

// ownedKRIDs returns the distinct key result ids attached to the user's
// goals, sorted for stable iteration.
func (ix *snapshotIndex) ownedKRIDs(userID string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, goal := range ix.goalsByOwner[userID] {
		for _, kr := range ix.krsByGoal[goal.ID] {
			if _, dup := seen[kr.ID]; dup {
				continue
			}
			seen[kr.ID] = struct{}{}
			ids = append(ids, kr.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// ownsGoals reports whether the user owns at least one goal.
func (ix *snapshotIndex) ownsGoals(userID string) bool {
	return len(ix.goalsByOwner[userID]) > 0
}
