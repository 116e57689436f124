package stats

import (
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// Alignment computes, for every user, how many of their distinct key results
// roll up (through their goal's resolved target) to each organizational
// scope, plus the matching percentages.
func (c *Collector) Alignment() map[string]schema.AlignmentStats {
	out := make(map[string]schema.AlignmentStats, len(c.users))
	for _, u := range c.users {
		out[u.ID] = c.alignmentFor(u.ID)
	}
	return out
}

func (c *Collector) alignmentFor(userID string) schema.AlignmentStats {
	var stats schema.AlignmentStats
	seen := make(map[string]struct{})
	for _, g := range c.goalsByUser[userID] {
		scope, aligned := c.scopeByGoal[g.ID]
		for _, kr := range c.krsByGoal[g.ID] {
			if _, dup := seen[kr.ID]; dup {
				continue
			}
			seen[kr.ID] = struct{}{}
			stats.TotalKRs++
			if !aligned {
				continue
			}
			stats.AlignedAny++
			switch scope {
			case schema.CompanyScope:
				stats.AlignedCompany++
			case schema.DeptScope:
				stats.AlignedDept++
			case schema.TeamScope:
				stats.AlignedTeam++
			}
		}
	}

	if stats.TotalKRs == 0 {
		return stats
	}
	total := float64(stats.TotalKRs)
	stats.CompanyPct = contract.Round2(float64(stats.AlignedCompany) / total * 100)
	stats.DeptPct = contract.Round2(float64(stats.AlignedDept) / total * 100)
	stats.TeamPct = contract.Round2(float64(stats.AlignedTeam) / total * 100)
	stats.TotalPct = contract.Round2(float64(stats.AlignedAny) / total * 100)
	return stats
}
