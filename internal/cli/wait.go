// internal/cli/wait.go - Readiness polling only
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seq-sentry/internal/poller"
	"seq-sentry/internal/rpc"
)

// NewWaitCommand creates the wait command.
func NewWaitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wait",
		Short: "Wait until the node's RPC endpoint is reachable",
		Long: `Poll the node's JSON-RPC endpoint until it answers. Exits 0 as soon as
the node is reachable, non-zero once the wait budget is spent. Fetches
nothing.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}
			logger := rootOpts.NewLogger()

			client := rpc.NewClient(cfg.Endpoint, time.Duration(cfg.RequestTimeout)*time.Second, logger)
			p := poller.New(client, logger)

			result, err := p.Wait(cmd.Context(),
				time.Duration(cfg.MaxWait)*time.Second,
				time.Duration(cfg.PollInterval)*time.Second)
			if err != nil {
				return err
			}
			if !result.Ready {
				return fmt.Errorf("%w after %d attempts in %s",
					poller.ErrTimedOut, result.Attempts, result.Elapsed.Round(time.Second))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "node reachable after %d attempt(s) in %s\n",
				result.Attempts, result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
}
