package schema

// CheckThresholds holds the gating limits evaluated by the check command.
type CheckThresholds struct {
	MinOverallHealth float64 // overall health score must be at least this
	MaxCriticalAlert int     // critical alert count must not exceed this
	MaxHighRiskUsers int     // High-risk user count must not exceed this
}

// CheckResult holds the outcome of a policy check against one report.
type CheckResult struct {
	Passed     bool
	Thresholds CheckThresholds
	Items      []CheckItem
}

// CheckItem is one evaluated gate.
type CheckItem struct {
	Name      string
	Passed    bool
	Actual    float64
	Threshold float64
}
