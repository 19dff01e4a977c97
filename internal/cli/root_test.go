package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NODE_RPC_URL", "POLL_INTERVAL", "MAX_WAIT", "OUTPUT_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	clearEnv(t)

	opts := &RootOptions{
		Endpoint: "http://10.1.1.1:8080",
		Interval: 3,
		MaxWait:  9,
		Output:   "/tmp/seq-snapshot.yaml",
	}

	cfg, err := opts.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://10.1.1.1:8080", cfg.Endpoint)
	require.Equal(t, 3, cfg.PollInterval)
	require.Equal(t, 9, cfg.MaxWait)
	require.Equal(t, "/tmp/seq-snapshot.yaml", cfg.OutputPath)
}

func TestLoadConfig_ValidatesOverrides(t *testing.T) {
	clearEnv(t)

	// Interval beyond the default max wait must be rejected.
	opts := &RootOptions{Interval: 700}
	_, err := opts.LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not exceed")
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	require.True(t, names["run"])
	require.True(t, names["wait"])
	require.True(t, names["snapshot"])
}
