// internal/cli/snapshot.go - Capture a snapshot from an already-running node
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"seq-sentry/internal/notifications"
	"seq-sentry/internal/orchestrator"
)

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch and persist a sync snapshot without polling",
		Long: `Fetch the proven block height and its sync proof from a node assumed to
be up. A single failed probe aborts instead of polling; use run when the
node may still be starting.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}
			logger := rootOpts.NewLogger()

			notifier := notifications.New(&cfg, logger)
			orch := orchestrator.New(&cfg, notifier, logger)

			record, err := orch.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "proven block %d recorded to %s\n",
				record.ProvenBlock.Height, cfg.OutputPath)
			return nil
		},
	}
}
