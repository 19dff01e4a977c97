// internal/cli/root.go - Command tree and shared options
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"seq-sentry/internal/config"
)

// RootOptions holds global flags for all commands. Flag values override the
// config file and environment.
type RootOptions struct {
	ConfigPath string
	Endpoint   string
	Interval   int
	MaxWait    int
	Output     string
	Verbose    bool
}

// NewRootCommand creates the root command for the seq-sentry CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "seq-sentry",
		Short: "Sequencer node readiness checks and sync snapshots",
		Long: `seq-sentry waits for a freshly started sequencer node to expose its
JSON-RPC endpoint, then captures the latest proven block height and the sync
proof for that height as a snapshot file.`,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "", "node RPC endpoint (overrides config)")
	cmd.PersistentFlags().IntVar(&opts.Interval, "interval", 0, "seconds between poll attempts (overrides config)")
	cmd.PersistentFlags().IntVar(&opts.MaxWait, "max-wait", 0, "total seconds to wait for readiness (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Output, "output", "", "snapshot output path (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewWaitCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))

	return cmd
}

// LoadConfig resolves the effective configuration for a command: file + env
// via config.Load, then flag overrides, then validation.
func (o *RootOptions) LoadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
	}
	if o.Interval > 0 {
		cfg.PollInterval = o.Interval
	}
	if o.MaxWait > 0 {
		cfg.MaxWait = o.MaxWait
	}
	if o.Output != "" {
		cfg.OutputPath = o.Output
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewLogger builds the process logger honoring --verbose.
func (o *RootOptions) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
