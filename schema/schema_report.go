package schema

import "time"

// Report is the aggregate output of one full analysis run.
type Report struct {
	GeneratedAt     time.Time                 `json:"generated_at"`
	Summary         ReportSummary             `json:"summary"`
	WeeklyAnalysis  WeeklyAnalysis            `json:"weekly_analysis"`
	CheckinAnalysis CheckinAnalysis           `json:"checkin_analysis"`
	Alerts          Alerts                    `json:"alerts_and_warnings"`
	Health          OrgHealth                 `json:"organization_health"`
	Users           []UserAnalysis            `json:"detailed_user_analysis"`
	Alignment       map[string]AlignmentStats `json:"alignment_analysis"` // keyed by user id
}

// ReportSummary is the executive section at the top of a report.
type ReportSummary struct {
	KeyMetrics KeyMetrics `json:"key_metrics"`
	TopIssues  []string   `json:"top_issues"` // "TYPE: user", first 5 critical + first 3 moderate
	Highlights []string   `json:"highlights"`
}

// KeyMetrics holds the headline numbers of a report.
type KeyMetrics struct {
	TotalActiveUsers   int     `json:"total_active_users"`
	OKRHealthScore     float64 `json:"okr_health_score"`
	CheckinHealthScore float64 `json:"checkin_health_score"`
	OverallHealthScore float64 `json:"overall_health_score"`
	CriticalIssues     int     `json:"critical_issues"`
	ModerateIssues     int     `json:"moderate_issues"`
}

// WeeklyAnalysis summarizes the weekly shift results across the organization.
type WeeklyAnalysis struct {
	TotalUsers         int                     `json:"total_users"`
	UsersPositiveShift int                     `json:"users_positive_shift"`
	UsersNegativeShift int                     `json:"users_negative_shift"`
	AvgShift           float64                 `json:"avg_shift"`
	AvgCurrentValue    float64                 `json:"avg_current_value"`
	AvgKRCount         float64                 `json:"avg_kr_count"`
	Distribution       PerformanceDistribution `json:"performance_distribution"`
}

// PerformanceDistribution buckets users by performance level.
type PerformanceDistribution struct {
	Excellent int `json:"excellent"` // shift >= 20
	Good      int `json:"good"`      // shift >= 10
	Average   int `json:"average"`   // shift >= 0
	Poor      int `json:"poor"`      // shift < 0

	TopPerformers    []ShiftResult `json:"top_performers"`    // capped at 10
	BottomPerformers []ShiftResult `json:"bottom_performers"` // capped at 10
}

// CheckinAnalysis holds per-user checkin behavior statistics.
type CheckinAnalysis struct {
	TotalWeeks int              `json:"total_weeks"` // global per-week denominator
	Period     []PeriodCheckin  `json:"period_checkins"`
	Overall    []OverallCheckin `json:"overall_checkins"`
}

// PeriodCheckin counts a user's checkins inside the reporting period.
type PeriodCheckin struct {
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	CheckinCount int     `json:"checkin_count_period"`
	CheckinRate  float64 `json:"checkin_rate_period"` // per week, 2 decimals
}

// OverallCheckin summarizes a user's full checkin history.
type OverallCheckin struct {
	UserID           string  `json:"user_id"`
	UserName         string  `json:"user_name"`
	TotalCheckins    int     `json:"total_checkins"`
	WeeksWithCheckin int     `json:"weeks_with_checkin"` // distinct ISO year-week keys
	FrequencyPerWeek float64 `json:"checkin_frequency_per_week"`
	LastWeekCheckins int     `json:"last_week_checkins"` // within the trailing 7 days
}

// Alerts buckets raised alerts by severity.
type Alerts struct {
	Critical []Alert `json:"critical_issues"`
	Moderate []Alert `json:"moderate_issues"`
	Low      []Alert `json:"low_issues"`
}

// Alert flags one user for one triggered condition.
type Alert struct {
	Type     AlertType     `json:"type"`
	Severity AlertSeverity `json:"severity"`
	UserID   string        `json:"user_id"`
	User     string        `json:"user"`
	Detail   string        `json:"detail,omitempty"`
}

// Count returns the total number of alerts across severities.
func (a Alerts) Count() int {
	return len(a.Critical) + len(a.Moderate) + len(a.Low)
}

// OrgHealth holds organization-level health scores and guidance.
type OrgHealth struct {
	OKRHealthScore     float64      `json:"okr_health_score"`     // % users with positive shift
	CheckinHealthScore float64      `json:"checkin_health_score"` // % users with >= 1 checkin in period
	OverallHealthScore float64      `json:"overall_health_score"` // mean of the two
	Trends             HealthTrends `json:"trends"`
	Recommendations    []string     `json:"recommendations"`
}

// HealthTrends compares the current run against the previous recorded run.
// Without history the trends stay "stable" with low confidence.
type HealthTrends struct {
	OKRTrend     string `json:"okr_trend"` // stable, improving, declining
	CheckinTrend string `json:"checkin_trend"`
	OverallTrend string `json:"overall_trend"`
	Confidence   string `json:"confidence"` // low, medium, high
}

// UserAnalysis is the per-user section of the aggregate report.
type UserAnalysis struct {
	UserID          string          `json:"user_id"`
	UserName        string          `json:"user_name"`
	Performance     OKRPerformance  `json:"okr_performance"`
	Checkins        CheckinBehavior `json:"checkin_behavior"`
	Alignment       AlignmentStats  `json:"alignment_contribution"`
	Risk            RiskAssessment  `json:"risk_assessment"`
	Recommendations []string        `json:"recommendations"`
}

// OKRPerformance holds the shift figures echoed into a user analysis.
type OKRPerformance struct {
	WeeklyShift    float64          `json:"weekly_shift"`
	CurrentValue   float64          `json:"current_value"`
	ReferenceValue float64          `json:"reference_value"`
	KRCount        int              `json:"kr_count"`
	Level          PerformanceLevel `json:"performance_level"`
}

// CheckinBehavior holds the checkin figures echoed into a user analysis.
type CheckinBehavior struct {
	PeriodCheckins   int     `json:"period_checkins"`
	TotalCheckins    int     `json:"total_checkins"`
	CheckinRate      float64 `json:"checkin_rate"`
	FrequencyPerWeek float64 `json:"frequency_per_week"`
	LastWeekCheckins int     `json:"last_week_checkins"`
}

// AlignmentStats holds the share of a user's key results aligned to each
// organizational scope.
type AlignmentStats struct {
	TotalKRs       int     `json:"total_krs"`
	AlignedCompany int     `json:"aligned_company_krs"`
	AlignedDept    int     `json:"aligned_dept_krs"`
	AlignedTeam    int     `json:"aligned_team_krs"`
	AlignedAny     int     `json:"aligned_any_krs"`
	CompanyPct     float64 `json:"company_alignment_pct"`
	DeptPct        float64 `json:"dept_alignment_pct"`
	TeamPct        float64 `json:"team_alignment_pct"`
	TotalPct       float64 `json:"total_alignment_pct"`
}

// RiskAssessment is the additive risk score for one user with the factors
// that triggered it.
type RiskAssessment struct {
	Score   int       `json:"risk_score"`
	Level   RiskLevel `json:"risk_level"`
	Factors []string  `json:"risk_factors"`
}
