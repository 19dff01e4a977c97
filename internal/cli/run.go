// internal/cli/run.go - Full sequence: wait, fetch, persist
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"seq-sentry/internal/notifications"
	"seq-sentry/internal/orchestrator"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Wait for the node, then capture a sync snapshot",
		Long: `Poll the node's JSON-RPC endpoint until it answers or the wait budget is
spent, then fetch the proven block height and its sync proof and write them
to the snapshot file.

Example:
  seq-sentry run --endpoint http://localhost:8080 --max-wait 600 --interval 10`,
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

			record, err := orch.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "proven block %d recorded to %s\n",
				record.ProvenBlock.Height, cfg.OutputPath)
			return nil
		},
	}
}
