// Package stats derives per-user checkin behavior and alignment contribution
// figures from a snapshot plus the checkpoint index built by the core.
package stats

import (
	"time"

	"github.com/okrpulse/okrpulse/schema"
)

// CheckpointIndex is the slice of the progress ledger the collectors need.
// Keeping it an interface lets the package stay independent of how the core
// indexes checkpoints.
type CheckpointIndex interface {
	CountBetween(krIDs []string, from, to time.Time) int
	CountAll(krIDs []string) int
	DistinctWeeks(krIDs []string) int
	EarliestTimestamp() time.Time
}

// Collector computes per-user statistics over one snapshot. Build one per
// run; it precomputes the ownership and alignment lookups both collectors
// share.
type Collector struct {
	index CheckpointIndex
	dir   *schema.UserDirectory
	now   time.Time

	users       []schema.User
	krIDsByUser map[string][]string
	scopeByGoal map[string]schema.TargetScope
	goalsByUser map[string][]schema.Goal
	krsByGoal   map[string][]schema.KeyResult
}

// NewCollector indexes the snapshot for stat collection, anchored at now.
func NewCollector(snapshot *schema.Snapshot, index CheckpointIndex, dir *schema.UserDirectory, now time.Time) *Collector {
	c := &Collector{
		index:       index,
		dir:         dir,
		now:         now,
		krIDsByUser: make(map[string][]string),
		goalsByUser: make(map[string][]schema.Goal),
		krsByGoal:   make(map[string][]schema.KeyResult),
	}

	seenUsers := make(map[string]struct{}, len(snapshot.Users))
	for _, u := range snapshot.Users {
		if _, dup := seenUsers[u.ID]; dup {
			continue
		}
		seenUsers[u.ID] = struct{}{}
		c.users = append(c.users, u)
	}

	seenGoals := make(map[string]struct{}, len(snapshot.Goals))
	goals := make([]schema.Goal, 0, len(snapshot.Goals))
	for _, g := range snapshot.Goals {
		if _, dup := seenGoals[g.ID]; dup {
			continue
		}
		seenGoals[g.ID] = struct{}{}
		goals = append(goals, g)
		c.goalsByUser[g.OwnerUserID] = append(c.goalsByUser[g.OwnerUserID], g)
	}

	for _, kr := range snapshot.KeyResults {
		c.krsByGoal[kr.GoalID] = append(c.krsByGoal[kr.GoalID], kr)
	}

	for _, u := range c.users {
		seen := make(map[string]struct{})
		for _, g := range c.goalsByUser[u.ID] {
			for _, kr := range c.krsByGoal[g.ID] {
				if _, dup := seen[kr.ID]; dup {
					continue
				}
				seen[kr.ID] = struct{}{}
				c.krIDsByUser[u.ID] = append(c.krIDsByUser[u.ID], kr.ID)
			}
		}
	}

	c.scopeByGoal = resolveGoalScopes(goals, snapshot.Targets)
	return c
}

// resolveGoalScopes maps each goal to the scope of its resolved alignment
// target. Resolution mirrors the tree builder: explicit target_id first,
// membership lists second; unresolved goals stay absent from the map.
func resolveGoalScopes(goals []schema.Goal, targets []schema.Target) map[string]schema.TargetScope {
	targetByID := make(map[string]schema.Target, len(targets))
	subGoalHome := make(map[string]string)
	for _, t := range targets {
		if _, dup := targetByID[t.ID]; dup {
			continue
		}
		targetByID[t.ID] = t
		for _, id := range t.SubGoalIDs {
			if _, ok := subGoalHome[id]; !ok {
				subGoalHome[id] = t.ID
			}
		}
	}

	scopes := make(map[string]schema.TargetScope, len(goals))
	for _, g := range goals {
		if g.TargetID != "" && g.TargetID != schema.UnalignedTargetID {
			if t, ok := targetByID[g.TargetID]; ok {
				scopes[g.ID] = t.Scope
				continue
			}
		}
		if tid, ok := subGoalHome[g.ID]; ok {
			scopes[g.ID] = targetByID[tid].Scope
		}
	}
	return scopes
}
