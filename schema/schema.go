// Package schema has the snapshot records, derived models and constants for all parts of okrpulse.
package schema

import "time"

// Checkpoint is a single timestamped progress report against a key result.
// Timestamps are epoch seconds as delivered by the goal-tracking platform
// and may be zero when the platform did not record one.
type Checkpoint struct {
	KRID      string  `json:"kr_id"`     // Key result the checkin was filed against
	UserID    string  `json:"user_id"`   // Author of the checkin
	Timestamp int64   `json:"timestamp"` // Epoch seconds; zero means unknown
	Value     float64 `json:"value"`     // Reported completion value at that instant
}

// Time returns the checkpoint timestamp as a time.Time.
func (c Checkpoint) Time() time.Time {
	return time.Unix(c.Timestamp, 0)
}

// KeyResult is a measurable outcome belonging to exactly one goal.
type KeyResult struct {
	ID           string  `json:"id"`
	GoalID       string  `json:"goal_id"`       // Owning goal
	OwnerUserID  string  `json:"owner_user_id"` // User accountable for the key result
	Name         string  `json:"name"`
	CurrentValue float64 `json:"current_value"` // Latest completion value known to the platform
	Unit         string  `json:"unit"`          // Display unit, e.g. "%" or "deals"
	TargetValue  float64 `json:"target_value"`  // Completion value that counts as done
}

// Goal is an objective owned by one user, optionally aligned to a target.
type Goal struct {
	ID          string `json:"id"`
	OwnerUserID string `json:"owner_user_id"`
	Name        string `json:"name"`
	TargetID    string `json:"target_id,omitempty"` // Alignment target; empty or "0" means unaligned
	TeamID      string `json:"team_id,omitempty"`   // Team the goal belongs to, when known
	DeptID      string `json:"dept_id,omitempty"`   // Department the goal belongs to, when known
	Since       int64  `json:"since"`               // Epoch seconds of goal creation
}

// Target is an organizational alignment node that child goals roll up into.
type Target struct {
	ID         string      `json:"id"`
	Scope      TargetScope `json:"scope"`                  // company, dept or team
	ParentID   string      `json:"parent_id,omitempty"`    // Company target this one rolls up into
	Name       string      `json:"name"`
	SubGoalIDs []string    `json:"sub_goal_ids,omitempty"` // Secondary membership list, partially redundant with parent links
}

// User is a member of the organization.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is the full set of records one report invocation computes over.
// It is fetched once by an external collaborator and treated as read-only
// for the lifetime of the run; nothing in it persists across invocations.
type Snapshot struct {
	FetchedAt   time.Time    `json:"fetched_at"`
	Users       []User       `json:"users"`
	Goals       []Goal       `json:"goals"`
	KeyResults  []KeyResult  `json:"key_results"`
	Checkpoints []Checkpoint `json:"checkpoints"`
	Targets     []Target     `json:"targets"`
}
