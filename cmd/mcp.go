package cmd

import (
	"fmt"
	"strings"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/internal/iostore"
	"github.com/okrpulse/okrpulse/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpSetup mirrors sharedSetup but tolerates a missing snapshot path, since
// every MCP tool call can name its own snapshot. It also suppresses the
// normal header logs to avoid polluting stdio which is used for the protocol.
func mcpSetup(args []string) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if len(args) == 1 {
		input.SnapshotPathStr = args[0]
	}

	// Validation insists on a snapshot path; when the server starts without
	// one, validate against a placeholder and blank it out afterwards so
	// tool calls must provide their own.
	deferred := strings.TrimSpace(input.SnapshotPathStr) == ""
	if deferred {
		input.SnapshotPathStr = "."
	}
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	if deferred {
		cfg.SnapshotPath = ""
	}

	if err := iostore.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize report history: %w", err)
	}

	return nil
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [snapshot-path]",
	Short: "Start the okrpulse MCP server",
	Long:  `Launch an MCP server that allows AI agents to run OKR analyses via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return mcpSetup(args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
