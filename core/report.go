package core

import (
	"fmt"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// Risk penalties. Each condition triggers independently and the sum
// classifies the user via schema.RiskLevelFor.
const (
	riskNegativeShift = 30
	riskFewCheckins   = 25
	riskLowFrequency  = 20
	riskNoKRs         = 25
)

// Organization health thresholds that trigger recommendations.
const (
	okrHealthTarget     = 60.0
	checkinHealthTarget = 70.0
	overallHealthTarget = 65.0
)

// Overall health bands for summary highlights.
const (
	healthVeryGood = 80.0
	healthGood     = 65.0
)

// Caps on report list lengths.
const (
	performerListCap  = 10
	criticalIssuesCap = 5
	moderateIssuesCap = 3
)

// Trend labels, and the score movement needed before a trend stops
// reading as stable.
const (
	trendStable    = "stable"
	trendImproving = "improving"
	trendDeclining = "declining"

	confidenceLow    = "low"
	confidenceMedium = "medium"

	trendDelta = 5.0
)

// BuildOrgReport assembles the organization-wide report from per-user weekly
// shifts, checkin statistics and alignment contributions. The weekly slice is
// expected in adjusted-shift-descending order, as ShiftReconciler.ComputeAll
// returns it; user analyses inherit that order. Trends start out stable with
// low confidence; callers with run history upgrade them via UpdateTrends.
func BuildOrgReport(weekly []schema.ShiftResult, checkins schema.CheckinAnalysis, behavior map[string]schema.CheckinBehavior, alignment map[string]schema.AlignmentStats) schema.Report {
	report := schema.Report{
		GeneratedAt:     time.Now(),
		WeeklyAnalysis:  buildWeeklyAnalysis(weekly),
		CheckinAnalysis: checkins,
		Alignment:       alignment,
	}
	report.Users = buildUserAnalyses(weekly, behavior, alignment)
	report.Alerts = buildAlerts(weekly, behavior)
	report.Health = buildOrgHealth(weekly, behavior)
	report.Summary = buildSummary(report.Health, report.Alerts, len(weekly), report.WeeklyAnalysis.Distribution.Excellent)
	return report
}

// UpdateTrends compares current health scores against the previous recorded
// run and replaces the stable defaults where the movement exceeds the trend
// delta. A nil previous run leaves the defaults untouched.
func UpdateTrends(health *schema.OrgHealth, prev *schema.ReportRunRecord) {
	if prev == nil {
		return
	}
	health.Trends.OKRTrend = trendFor(health.OKRHealthScore, prev.OKRHealthScore)
	health.Trends.CheckinTrend = trendFor(health.CheckinHealthScore, prev.CheckinHealthScore)
	health.Trends.OverallTrend = trendFor(health.OverallHealthScore, prev.OverallHealthScore)
	health.Trends.Confidence = confidenceMedium
}

func trendFor(current, previous float64) string {
	switch {
	case current-previous > trendDelta:
		return trendImproving
	case previous-current > trendDelta:
		return trendDeclining
	default:
		return trendStable
	}
}

func buildWeeklyAnalysis(weekly []schema.ShiftResult) schema.WeeklyAnalysis {
	wa := schema.WeeklyAnalysis{TotalUsers: len(weekly)}
	if len(weekly) == 0 {
		return wa
	}

	var shiftSum, currentSum float64
	var krSum int
	for _, r := range weekly {
		shiftSum += r.AdjustedShift
		currentSum += r.CurrentValue
		krSum += r.KRCount
		switch {
		case r.AdjustedShift > 0:
			wa.UsersPositiveShift++
		case r.AdjustedShift < 0:
			wa.UsersNegativeShift++
		}
		switch schema.PerformanceLevelFor(r.AdjustedShift) {
		case schema.ExcellentPerformance:
			wa.Distribution.Excellent++
		case schema.GoodPerformance:
			wa.Distribution.Good++
		case schema.AveragePerformance:
			wa.Distribution.Average++
		default:
			wa.Distribution.Poor++
		}
	}

	n := float64(len(weekly))
	wa.AvgShift = contract.Round2(shiftSum / n)
	wa.AvgCurrentValue = contract.Round2(currentSum / n)
	wa.AvgKRCount = contract.Round1(float64(krSum) / n)

	top := min(performerListCap, len(weekly))
	wa.Distribution.TopPerformers = append([]schema.ShiftResult(nil), weekly[:top]...)
	for i := len(weekly) - 1; i >= 0 && len(wa.Distribution.BottomPerformers) < performerListCap; i-- {
		wa.Distribution.BottomPerformers = append(wa.Distribution.BottomPerformers, weekly[i])
	}
	return wa
}

func buildUserAnalyses(weekly []schema.ShiftResult, behavior map[string]schema.CheckinBehavior, alignment map[string]schema.AlignmentStats) []schema.UserAnalysis {
	users := make([]schema.UserAnalysis, 0, len(weekly))
	for _, r := range weekly {
		b := behavior[r.UserID]
		users = append(users, schema.UserAnalysis{
			UserID:   r.UserID,
			UserName: r.UserName,
			Performance: schema.OKRPerformance{
				WeeklyShift:    r.AdjustedShift,
				CurrentValue:   r.CurrentValue,
				ReferenceValue: r.AdjustedReference,
				KRCount:        r.KRCount,
				Level:          schema.PerformanceLevelFor(r.AdjustedShift),
			},
			Checkins:        b,
			Alignment:       alignment[r.UserID],
			Risk:            assessRisk(r, b),
			Recommendations: userRecommendations(r, b),
		})
	}
	return users
}

func assessRisk(r schema.ShiftResult, b schema.CheckinBehavior) schema.RiskAssessment {
	var risk schema.RiskAssessment
	if r.AdjustedShift < 0 {
		risk.Score += riskNegativeShift
		risk.Factors = append(risk.Factors, "negative progress")
	}
	if b.PeriodCheckins < contract.MinPeriodCheckins {
		risk.Score += riskFewCheckins
		risk.Factors = append(risk.Factors, "few checkins in period")
	}
	if b.FrequencyPerWeek < 1 {
		risk.Score += riskLowFrequency
		risk.Factors = append(risk.Factors, "low checkin frequency")
	}
	if r.KRCount == 0 {
		risk.Score += riskNoKRs
		risk.Factors = append(risk.Factors, "no active key results")
	}
	risk.Level = schema.RiskLevelFor(risk.Score)
	return risk
}

func userRecommendations(r schema.ShiftResult, b schema.CheckinBehavior) []string {
	var recs []string
	if r.AdjustedShift < 0 {
		recs = append(recs, "Focus on moving key results forward; progress slipped this week")
	}
	if b.PeriodCheckins < contract.MinPeriodCheckins {
		recs = append(recs, "Check in at least twice per period")
	}
	if r.KRCount == 0 {
		recs = append(recs, "Define measurable key results for active goals")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep up the good work")
	}
	return recs
}

func buildAlerts(weekly []schema.ShiftResult, behavior map[string]schema.CheckinBehavior) schema.Alerts {
	var alerts schema.Alerts
	for _, r := range weekly {
		b := behavior[r.UserID]
		if r.GoalCount == 0 {
			alerts.Critical = append(alerts.Critical, newAlert(schema.AlertNoGoals, schema.CriticalAlert, r, "no goals defined"))
		}
		if b.TotalCheckins == 0 {
			alerts.Critical = append(alerts.Critical, newAlert(schema.AlertNoCheckins, schema.CriticalAlert, r, "no checkins recorded"))
		}
		if r.GoalCount > 0 && b.TotalCheckins == 0 {
			alerts.Moderate = append(alerts.Moderate, newAlert(schema.AlertGoalsNoCheckins, schema.ModerateAlert, r, "has goals but never checked in"))
		}
		if r.AdjustedShift < 0 {
			alerts.Moderate = append(alerts.Moderate, newAlert(schema.AlertLowPerformance, schema.ModerateAlert, r, fmt.Sprintf("weekly shift %.2f", r.AdjustedShift)))
		}
		if b.PeriodCheckins < contract.MinPeriodCheckins {
			alerts.Low = append(alerts.Low, newAlert(schema.AlertInfrequentCheckins, schema.LowAlert, r, fmt.Sprintf("%d checkins in period", b.PeriodCheckins)))
		}
	}
	return alerts
}

func newAlert(kind schema.AlertType, severity schema.AlertSeverity, r schema.ShiftResult, detail string) schema.Alert {
	return schema.Alert{Type: kind, Severity: severity, UserID: r.UserID, User: r.UserName, Detail: detail}
}

func buildOrgHealth(weekly []schema.ShiftResult, behavior map[string]schema.CheckinBehavior) schema.OrgHealth {
	health := schema.OrgHealth{
		Trends: schema.HealthTrends{
			OKRTrend:     trendStable,
			CheckinTrend: trendStable,
			OverallTrend: trendStable,
			Confidence:   confidenceLow,
		},
	}
	if len(weekly) == 0 {
		health.Recommendations = healthRecommendations(health)
		return health
	}

	positive, active := 0, 0
	for _, r := range weekly {
		if r.AdjustedShift > 0 {
			positive++
		}
		if behavior[r.UserID].PeriodCheckins >= 1 {
			active++
		}
	}
	n := float64(len(weekly))
	health.OKRHealthScore = contract.Round1(float64(positive) / n * 100)
	health.CheckinHealthScore = contract.Round1(float64(active) / n * 100)
	health.OverallHealthScore = contract.Round1((health.OKRHealthScore + health.CheckinHealthScore) / 2)
	health.Recommendations = healthRecommendations(health)
	return health
}

func healthRecommendations(h schema.OrgHealth) []string {
	var recs []string
	if h.OKRHealthScore < okrHealthTarget {
		recs = append(recs, "OKR health is low: focus on users with stalled or negative progress")
	}
	if h.CheckinHealthScore < checkinHealthTarget {
		recs = append(recs, "Checkin health is low: encourage regular weekly checkins")
	}
	if h.OverallHealthScore < overallHealthTarget {
		recs = append(recs, "Overall health is below target: draft an improvement action plan")
	}
	if len(recs) == 0 {
		recs = append(recs, "Organization health looks strong: keep the current cadence")
	}
	return recs
}

func buildSummary(health schema.OrgHealth, alerts schema.Alerts, totalUsers, highPerformers int) schema.ReportSummary {
	summary := schema.ReportSummary{
		KeyMetrics: schema.KeyMetrics{
			TotalActiveUsers:   totalUsers,
			OKRHealthScore:     health.OKRHealthScore,
			CheckinHealthScore: health.CheckinHealthScore,
			OverallHealthScore: health.OverallHealthScore,
			CriticalIssues:     len(alerts.Critical),
			ModerateIssues:     len(alerts.Moderate),
		},
	}

	for i, a := range alerts.Critical {
		if i == criticalIssuesCap {
			break
		}
		summary.TopIssues = append(summary.TopIssues, fmt.Sprintf("%s: %s", a.Type, a.User))
	}
	for i, a := range alerts.Moderate {
		if i == moderateIssuesCap {
			break
		}
		summary.TopIssues = append(summary.TopIssues, fmt.Sprintf("%s: %s", a.Type, a.User))
	}

	switch {
	case health.OverallHealthScore >= healthVeryGood:
		summary.Highlights = append(summary.Highlights, "Organization health is very good")
	case health.OverallHealthScore >= healthGood:
		summary.Highlights = append(summary.Highlights, "Organization health is good")
	default:
		summary.Highlights = append(summary.Highlights, "Organization health needs improvement")
	}
	if highPerformers > 0 {
		summary.Highlights = append(summary.Highlights, fmt.Sprintf("%d users with excellent progress", highPerformers))
	}
	return summary
}
