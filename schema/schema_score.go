package schema

// Score component keys used in the composite user score breakdown.
type ScoreComponent string

// All score components.
const (
	ScoreBase      ScoreComponent = "base"      // everyone starts here
	ScoreCadence   ScoreComponent = "cadence"   // month-end checkin cadence bonus
	ScoreOwnership ScoreComponent = "ownership" // owns at least one goal
	ScoreMovement  ScoreComponent = "movement"  // monthly shift threshold bonus
)

// UserScore is the composite engagement score for one user.
type UserScore struct {
	UserID     string                     `json:"user_id"`
	UserName   string                     `json:"user_name"`
	Score      float64                    `json:"score"`      // Sum of components, rounded to 2 decimals
	Components map[ScoreComponent]float64 `json:"components"` // Per-component contribution for debugging/tuning
}
