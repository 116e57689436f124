package core

import "github.com/okrpulse/okrpulse/schema"

// EvaluateChecks gates a report against the configured thresholds. Every
// gate is evaluated so a failing run reports all violations at once rather
// than the first one hit.
func EvaluateChecks(report *schema.Report, thresholds schema.CheckThresholds) schema.CheckResult {
	result := schema.CheckResult{Passed: true, Thresholds: thresholds}

	highRisk := 0
	for _, u := range report.Users {
		if u.Risk.Level == schema.HighRisk {
			highRisk++
		}
	}

	result.Items = []schema.CheckItem{
		{
			Name:      "overall health at or above minimum",
			Passed:    report.Health.OverallHealthScore >= thresholds.MinOverallHealth,
			Actual:    report.Health.OverallHealthScore,
			Threshold: thresholds.MinOverallHealth,
		},
		{
			Name:      "critical alerts within limit",
			Passed:    len(report.Alerts.Critical) <= thresholds.MaxCriticalAlert,
			Actual:    float64(len(report.Alerts.Critical)),
			Threshold: float64(thresholds.MaxCriticalAlert),
		},
		{
			Name:      "high-risk users within limit",
			Passed:    highRisk <= thresholds.MaxHighRiskUsers,
			Actual:    float64(highRisk),
			Threshold: float64(thresholds.MaxHighRiskUsers),
		},
	}

	for _, item := range result.Items {
		if !item.Passed {
			result.Passed = false
		}
	}
	return result
}
