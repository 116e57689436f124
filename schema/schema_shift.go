package schema

// ShiftResult holds the reconciled progress shift for one user over one period.
// Raw and adjusted figures are both retained so downstream reporting can show
// the official numbers while keeping an audit trail of when and why the
// reconciliation rules fired.
type ShiftResult struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Period   Period `json:"period"`

	CurrentValue      float64 `json:"current_value"`      // Mean of per-goal current values
	ReferenceValue    float64 `json:"reference_value"`    // Mean of per-goal values at the reference instant
	AdjustedReference float64 `json:"adjusted_reference"` // Reference after reconciliation

	RawShift      float64 `json:"raw_shift"`      // Mean over unique (goal, KR) pairs of per-KR deltas
	AdjustedShift float64 `json:"adjusted_shift"` // Shift after reconciliation
	LegacyShift   float64 `json:"legacy_shift"`   // CurrentValue - ReferenceValue, kept for comparison

	ReferenceAdjusted bool `json:"reference_adjusted"` // Rule 1 or the monthly reset fired
	ShiftAdjusted     bool `json:"shift_adjusted"`     // Rule 2 or the monthly reset fired

	GoalCount int `json:"goal_count"` // Distinct goals contributing to the figures
	KRCount   int `json:"kr_count"`   // Distinct (goal, KR) pairs contributing to the figures
}
