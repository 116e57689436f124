package cmd

import (
	"github.com/okrpulse/okrpulse/core"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/snapshot"
	"github.com/spf13/cobra"
)

// scoresCmd computes composite engagement scores per user.
var scoresCmd = &cobra.Command{
	Use:   "scores [snapshot-path]",
	Short: "Show per-user composite engagement scores.",
	Long: `Compute a composite engagement score for every user in the snapshot.

Each score combines checkin cadence, goal ownership and monthly movement,
helping you:
- Rank users by overall OKR engagement
- See which component (cadence, ownership, movement) drives each score
- Reward consistent checkin habits assessed at month-end
- Credit real progress through the movement bonus table

The component breakdown is printed alongside the final score.

Examples:
  # Scores for all users
  okrpulse scores snapshot.json

  # Top ten users as JSON
  okrpulse scores snapshot.json --limit 10 --output json

  # Scores anchored at the end of last month
  okrpulse scores snapshot.json --as-of "1 month ago"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScores(rootCtx, cfg, snapshot.NewFileSource(), storeManager); err != nil {
			contract.LogFatal("Cannot run scores analysis", err)
		}
	},
}
