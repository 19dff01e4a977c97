package orchestrator

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"seq-sentry/internal/config"
	"seq-sentry/internal/notifications"
	"seq-sentry/internal/poller"
	"seq-sentry/internal/rpc"
	"seq-sentry/internal/snapshot"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeNode serves the two sequencer RPC methods with canned bodies.
type fakeNode struct {
	mu          sync.Mutex
	tipsBody    string
	proofBody   string
	tipsCalls   int
	proofCalls  int
	proofParams []string
}

func (f *fakeNode) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string   `json:"method"`
			Params []string `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		switch req.Method {
		case "node_getTips":
			f.tipsCalls++
			io.WriteString(w, f.tipsBody)
		case "node_getArchiveSiblingPath":
			f.proofCalls++
			f.proofParams = req.Params
			io.WriteString(w, f.proofBody)
		default:
			io.WriteString(w, `{"error":{"code":-32601,"message":"method not found"}}`)
		}
	}
}

func (f *fakeNode) stats() (tips, proofs int, params []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tipsCalls, f.proofCalls, f.proofParams
}

func newTestOrchestrator(t *testing.T, endpoint, outputPath string) *Orchestrator {
	t.Helper()

	cfg := config.Defaults()
	cfg.Endpoint = endpoint
	cfg.PollInterval = 1
	cfg.MaxWait = 1
	cfg.RequestTimeout = 2
	cfg.OutputPath = outputPath

	logger := testLogger()
	return New(&cfg, notifications.New(&cfg, logger), logger)
}

func TestRun_HappyPath(t *testing.T) {
	t.Parallel()

	node := &fakeNode{
		tipsBody:  `{"result":{"proven":{"number":100}}}`,
		proofBody: `{"result":"proofdata"}`,
	}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	outputPath := filepath.Join(t.TempDir(), "snapshot.yaml")
	orch := newTestOrchestrator(t, srv.URL, outputPath)

	record, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(100), record.ProvenBlock.Height)
	require.Equal(t, "proofdata", record.SyncProof)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var persisted snapshot.Record
	require.NoError(t, yaml.Unmarshal(data, &persisted))
	require.Equal(t, record.RunID, persisted.RunID)
	require.Equal(t, uint64(100), persisted.ProvenBlock.Height)
	require.Equal(t, "proofdata", persisted.SyncProof)

	// Proof requested once, for the height the tip fetch returned.
	_, proofs, params := node.stats()
	require.Equal(t, 1, proofs)
	require.Equal(t, []string{"100", "100"}, params)
}

func TestRun_PollTimeout(t *testing.T) {
	t.Parallel()

	// Non-JSON answers keep the poller unsatisfied until the budget runs out.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "starting up", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	outputPath := filepath.Join(t.TempDir(), "snapshot.yaml")
	orch := newTestOrchestrator(t, srv.URL, outputPath)

	_, err := orch.Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, poller.ErrTimedOut)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StagePolling, stageErr.Stage)

	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingHeight(t *testing.T) {
	t.Parallel()

	node := &fakeNode{tipsBody: `{"result":null}`}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	outputPath := filepath.Join(t.TempDir(), "snapshot.yaml")
	orch := newTestOrchestrator(t, srv.URL, outputPath)

	_, err := orch.Run(context.Background())
	require.ErrorIs(t, err, rpc.ErrMissingField)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageFetchHeight, stageErr.Stage)

	// No proof fetch without a proven height.
	_, proofs, _ := node.stats()
	require.Equal(t, 0, proofs)

	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingProof(t *testing.T) {
	t.Parallel()

	node := &fakeNode{
		tipsBody:  `{"result":{"proven":{"number":7}}}`,
		proofBody: `{"result":null}`,
	}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	outputPath := filepath.Join(t.TempDir(), "snapshot.yaml")
	orch := newTestOrchestrator(t, srv.URL, outputPath)

	_, err := orch.Run(context.Background())
	require.ErrorIs(t, err, rpc.ErrMissingField)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageFetchProof, stageErr.Stage)

	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_PersistFailure(t *testing.T) {
	t.Parallel()

	node := &fakeNode{
		tipsBody:  `{"result":{"proven":{"number":100}}}`,
		proofBody: `{"result":"proofdata"}`,
	}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	// The output path is an existing directory, so the final rename fails.
	orch := newTestOrchestrator(t, srv.URL, t.TempDir())

	_, err := orch.Run(context.Background())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StagePersist, stageErr.Stage)
}

func TestSnapshot_NodeDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	outputPath := filepath.Join(t.TempDir(), "snapshot.yaml")
	orch := newTestOrchestrator(t, srv.URL, outputPath)

	start := time.Now()
	_, err := orch.Snapshot(context.Background())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StagePolling, stageErr.Stage)

	// One probe, no wait budget.
	require.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSnapshot_HappyPath(t *testing.T) {
	t.Parallel()

	node := &fakeNode{
		tipsBody:  `{"result":{"proven":{"number":55}}}`,
		proofBody: `{"result":"siblingpath"}`,
	}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	outputPath := filepath.Join(t.TempDir(), "snapshot.yaml")
	orch := newTestOrchestrator(t, srv.URL, outputPath)

	record, err := orch.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(55), record.ProvenBlock.Height)
	require.Equal(t, "siblingpath", record.SyncProof)

	_, err = os.Stat(outputPath)
	require.NoError(t, err)
}
