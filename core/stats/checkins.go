package stats

import (
	"sort"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// Checkins computes the organization-wide checkin lists plus the per-user
// behavior map that feeds each detailed user analysis. The period window is
// [quarterStart, refInstant]; overall figures span the full checkpoint
// history in the snapshot.
func (c *Collector) Checkins(quarterStart, refInstant time.Time) (schema.CheckinAnalysis, map[string]schema.CheckinBehavior) {
	totalWeeks := c.totalWeeks()
	periodWeeks := weeksBetween(quarterStart, refInstant)
	weekAgo := c.now.AddDate(0, 0, -7)

	analysis := schema.CheckinAnalysis{TotalWeeks: totalWeeks}
	behavior := make(map[string]schema.CheckinBehavior, len(c.users))

	for _, u := range c.users {
		krIDs := c.krIDsByUser[u.ID]
		periodCount := c.index.CountBetween(krIDs, quarterStart, refInstant)
		total := c.index.CountAll(krIDs)

		rate := contract.Round2(float64(periodCount) / float64(periodWeeks))
		freq := contract.Round2(float64(total) / float64(totalWeeks))
		lastWeek := c.index.CountBetween(krIDs, weekAgo, c.now)

		name := c.dir.UserName(u.ID)
		analysis.Period = append(analysis.Period, schema.PeriodCheckin{
			UserID:       u.ID,
			UserName:     name,
			CheckinCount: periodCount,
			CheckinRate:  rate,
		})
		analysis.Overall = append(analysis.Overall, schema.OverallCheckin{
			UserID:           u.ID,
			UserName:         name,
			TotalCheckins:    total,
			WeeksWithCheckin: c.index.DistinctWeeks(krIDs),
			FrequencyPerWeek: freq,
			LastWeekCheckins: lastWeek,
		})
		behavior[u.ID] = schema.CheckinBehavior{
			PeriodCheckins:   periodCount,
			TotalCheckins:    total,
			CheckinRate:      rate,
			FrequencyPerWeek: freq,
			LastWeekCheckins: lastWeek,
		}
	}

	sort.SliceStable(analysis.Period, func(i, j int) bool {
		if analysis.Period[i].CheckinCount != analysis.Period[j].CheckinCount {
			return analysis.Period[i].CheckinCount > analysis.Period[j].CheckinCount
		}
		return analysis.Period[i].UserName < analysis.Period[j].UserName
	})
	sort.SliceStable(analysis.Overall, func(i, j int) bool {
		if analysis.Overall[i].TotalCheckins != analysis.Overall[j].TotalCheckins {
			return analysis.Overall[i].TotalCheckins > analysis.Overall[j].TotalCheckins
		}
		return analysis.Overall[i].UserName < analysis.Overall[j].UserName
	})

	return analysis, behavior
}

// totalWeeks is the global frequency denominator: full weeks from the
// earliest checkpoint in the snapshot to now, at least 1, or a default
// quarter when there are no checkpoints at all.
func (c *Collector) totalWeeks() int {
	earliest := c.index.EarliestTimestamp()
	if earliest.IsZero() {
		return contract.DefaultQuarterWeeks
	}
	return weeksBetween(earliest, c.now)
}

func weeksBetween(from, to time.Time) int {
	if !to.After(from) {
		return 1
	}
	weeks := int(to.Sub(from).Hours()/24) / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}
