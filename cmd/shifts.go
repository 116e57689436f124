package cmd

import (
	"github.com/okrpulse/okrpulse/core"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/snapshot"
	"github.com/spf13/cobra"
)

// shiftsCmd computes reconciled progress shifts per user.
var shiftsCmd = &cobra.Command{
	Use:   "shifts [snapshot-path]",
	Short: "Show per-user progress shifts for the selected period.",
	Long: `Compute reconciled progress shifts for every user over the selected period.

Two independent shift estimates are computed per user and reconciled with
an explicit rule table, helping you:
- See who moved their key results and by how much
- Spot ordering artifacts where the reference ran ahead of the current value
- Distinguish official (adjusted) figures from raw ones via audit flags
- Catch the quarter-reset weeks where monthly baselines are zeroed

Both raw and adjusted figures are printed, so adjustments are always
visible rather than silently applied.

Examples:
  # Weekly shifts (default period)
  okrpulse shifts snapshot.json

  # Monthly shifts with more rows
  okrpulse shifts snapshot.json --period monthly --limit 50

  # Export shifts to Parquet for analytics
  okrpulse shifts snapshot.json --output parquet --output-file shifts.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteShifts(rootCtx, cfg, snapshot.NewFileSource(), storeManager); err != nil {
			contract.LogFatal("Cannot run shifts analysis", err)
		}
	},
}
