package cmd

import (
	"github.com/okrpulse/okrpulse/core"
	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/snapshot"
	"github.com/spf13/cobra"
)

// treeCmd reconstructs the alignment hierarchy.
var treeCmd = &cobra.Command{
	Use:   "tree [snapshot-path]",
	Short: "Show the reconstructed alignment hierarchy.",
	Long: `Rebuild the organization's alignment hierarchy from flat snapshot records.

Joins targets, goals and key results into a rooted tree, helping you:
- See how goals roll up through team and department targets to company level
- Find goals that align to no target (collected under the personal branch)
- Spot goals with no key results, which appear with empty children
- Ignore empty org nodes, which are pruned from the output

The personal branch groups unaligned goals by the owner's team or
department; unresolved identifiers fall under "Unknown Group".

Examples:
  # Alignment outline
  okrpulse tree snapshot.json

  # Tree as JSON for a UI to render
  okrpulse tree snapshot.json --output json

  # Flattened tree rows as CSV
  okrpulse tree snapshot.json --output csv --output-file tree.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTree(rootCtx, cfg, snapshot.NewFileSource(), storeManager); err != nil {
			contract.LogFatal("Cannot run tree analysis", err)
		}
	},
}
