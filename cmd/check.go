package cmd

import (
	"github.com/okrpulse/okrpulse/core"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/snapshot"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [snapshot-path]",
	Short: "Enforce report thresholds for CI/CD pipelines (fails build on violations)",
	Long: `Compute the organization report and enforce health policy thresholds.

Designed for scheduled pipelines - fails with non-zero exit code when the
organization's OKR health drops below acceptable levels.

Default thresholds: health >= 60, critical alerts <= 0, high-risk users <= 5

Use cases:
- Weekly pipeline gates - page the program lead when health degrades
- Quarter rollover validation - catch broken alignment after replanning
- Data quality enforcement - fail when critical alerts appear
- Prevent regression - catch engagement drops automatically

Examples:
  # Gate on the default thresholds
  okrpulse check snapshot.json

  # Custom thresholds per gate
  okrpulse check snapshot.json --thresholds-override "health:70,critical:1,high-risk:3"

  # Gate a past snapshot during backfill
  okrpulse check snapshot.json --as-of 2026-06-30T00:00:00Z`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Gate evaluation is done in ExecuteCheck
		if err := core.ExecuteCheck(rootCtx, cfg, snapshot.NewFileSource(), storeManager); err != nil {
			contract.LogFatal("Policy check failed", err)
		}
	},
}
