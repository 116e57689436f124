package schema

// Custom string types for type safety.
type (
	// Period represents the reporting window a shift is computed over.
	Period string

	// TargetScope represents the organizational level of an alignment target.
	TargetScope string

	// RiskLevel represents the per-user risk classification.
	RiskLevel string

	// AlertSeverity represents the severity bucket of an alert.
	AlertSeverity string

	// AlertType represents the condition that raised an alert.
	AlertType string

	// PerformanceLevel represents the per-user progress classification.
	PerformanceLevel string

	// NodeKind represents the kind of an alignment tree node.
	NodeKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for report history.
	DatabaseBackend string
)

// All reporting periods supported.
const (
	WeeklyPeriod  Period = "weekly" // default
	MonthlyPeriod Period = "monthly"
)

// UnalignedTargetID is the placeholder the goal-tracking platform emits for
// goals without a real alignment target.
const UnalignedTargetID = "0"

// All target scopes supported.
const (
	CompanyScope TargetScope = "company"
	DeptScope    TargetScope = "dept"
	TeamScope    TargetScope = "team"
)

// All risk levels supported.
const (
	HighRisk   RiskLevel = "High"   // score >= 60
	MediumRisk RiskLevel = "Medium" // score >= 30
	LowRisk    RiskLevel = "Low"
)

// All alert severities supported.
const (
	CriticalAlert AlertSeverity = "critical"
	ModerateAlert AlertSeverity = "moderate"
	LowAlert      AlertSeverity = "low"
)

// All alert types supported.
const (
	AlertNoGoals            AlertType = "NO_GOALS"
	AlertNoCheckins         AlertType = "NO_CHECKINS"
	AlertGoalsNoCheckins    AlertType = "GOALS_NO_CHECKINS"
	AlertLowPerformance     AlertType = "LOW_PERFORMANCE"
	AlertInfrequentCheckins AlertType = "INFREQUENT_CHECKINS"
)

// All performance levels supported.
const (
	ExcellentPerformance PerformanceLevel = "Excellent" // shift >= 20
	GoodPerformance      PerformanceLevel = "Good"      // shift >= 10
	AveragePerformance   PerformanceLevel = "Average"   // shift >= 0
	PoorPerformance      PerformanceLevel = "Poor"
)

// All alignment tree node kinds.
const (
	RootNode     NodeKind = "root"
	CompanyNode  NodeKind = "company"
	DeptNode     NodeKind = "dept"
	TeamNode     NodeKind = "team"
	PersonalNode NodeKind = "personal" // distinguished branch for unaligned goals
	GroupNode    NodeKind = "group"    // dept/team grouping inside the personal branch
	GoalNode     NodeKind = "goal"
	KRNode       NodeKind = "kr"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllPeriods returns a list of all supported reporting periods.
var AllPeriods = []Period{WeeklyPeriod, MonthlyPeriod}

// ValidPeriods lists all valid reporting periods.
var ValidPeriods = map[Period]struct{}{
	WeeklyPeriod:  {},
	MonthlyPeriod: {},
}

// ValidTargetScopes lists all valid alignment target scopes.
var ValidTargetScopes = map[TargetScope]struct{}{
	CompanyScope: {},
	DeptScope:    {},
	TeamScope:    {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// RiskLevelFor classifies a risk score into a level.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score >= 60:
		return HighRisk
	case score >= 30:
		return MediumRisk
	default:
		return LowRisk
	}
}

// PerformanceLevelFor classifies a shift value into a performance level.
func PerformanceLevelFor(shift float64) PerformanceLevel {
	switch {
	case shift >= 20:
		return ExcellentPerformance
	case shift >= 10:
		return GoodPerformance
	case shift >= 0:
		return AveragePerformance
	default:
		return PoorPerformance
	}
}
