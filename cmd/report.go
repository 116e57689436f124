package cmd

import (
	"github.com/okrpulse/okrpulse/core"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/snapshot"
	"github.com/spf13/cobra"
)

// reportCmd produces the full organization report.
var reportCmd = &cobra.Command{
	Use:   "report [snapshot-path]",
	Short: "Generate the full organization OKR health report.",
	Long: `Compute the complete organization report from one goal-tracking snapshot.

Combines every analysis into a single view, helping you:
- See reconciled weekly progress shifts per user
- Classify each user's risk from shift, cadence and ownership signals
- Surface critical, moderate and low alerts for follow-up
- Track OKR, checkin and overall health scores over time

When a history backend is configured, each run is recorded and health
trends are computed against the previous run.

Examples:
  # Full report from a snapshot file
  okrpulse report snapshot.json

  # Report anchored at a past instant
  okrpulse report snapshot.json --as-of "2 weeks ago"

  # Export the report to CSV for tracking
  okrpulse report snapshot.json --output csv --output-file report.csv

  # Run without recording history
  okrpulse report snapshot.json --history-backend none`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, snapshot.NewFileSource(), storeManager); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
