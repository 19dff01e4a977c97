// internal/orchestrator/orchestrator.go - Sequential run: poll, fetch, persist
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seq-sentry/internal/config"
	"seq-sentry/internal/metrics"
	"seq-sentry/internal/notifications"
	"seq-sentry/internal/poller"
	"seq-sentry/internal/rpc"
	"seq-sentry/internal/snapshot"
)

type Stage string

const (
	StagePolling     Stage = "polling"
	StageFetchHeight Stage = "fetch_height"
	StageFetchProof  Stage = "fetch_proof"
	StagePersist     Stage = "persist"
)

// StageError names the stage a run died in and carries the underlying error
// unmodified. The orchestrator takes no corrective action on failure.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Orchestrator struct {
	config   *config.Config
	client   *rpc.Client
	poller   *poller.Poller
	sink     *snapshot.Writer
	notifier *notifications.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func New(cfg *config.Config, notifier *notifications.Notifier, logger *slog.Logger) *Orchestrator {
	client := rpc.NewClient(cfg.Endpoint, time.Duration(cfg.RequestTimeout)*time.Second, logger)

	return &Orchestrator{
		config:   cfg,
		client:   client,
		poller:   poller.New(client, logger),
		sink:     snapshot.NewWriter(cfg.OutputPath, logger),
		notifier: notifier,
		metrics:  metrics.New(cfg.EnablePrometheus, cfg.PrometheusPort),
		logger:   logger,
		now:      time.Now,
	}
}

// Run waits for the node to become reachable, then captures and persists a
// sync snapshot. States are strictly sequential; the first failure ends the
// run with a StageError and nothing is written.
func (o *Orchestrator) Run(ctx context.Context) (*snapshot.Record, error) {
	start := o.now()
	maxWait := time.Duration(o.config.MaxWait) * time.Second
	interval := time.Duration(o.config.PollInterval) * time.Second

	o.logger.Info("Waiting for sequencer node",
		"endpoint", o.config.Endpoint,
		"poll_interval", interval,
		"max_wait", maxWait)

	result, err := o.poller.Wait(ctx, maxWait, interval)

	total, failed := o.poller.Attempts().Stats()
	o.metrics.RecordPollAttempts(total-failed, failed)
	o.metrics.SetNodeReady(result.Ready)

	if err != nil {
		return nil, o.fail(StagePolling, err)
	}
	if !result.Ready {
		return nil, o.fail(StagePolling, fmt.Errorf("%w after %d attempts in %s",
			poller.ErrTimedOut, result.Attempts, result.Elapsed.Round(time.Second)))
	}

	return o.capture(ctx, start)
}

// Snapshot skips the bounded wait: one probe, and if the node does not
// answer, the run is over. For nodes already known to be up.
func (o *Orchestrator) Snapshot(ctx context.Context) (*snapshot.Record, error) {
	start := o.now()

	if err := o.client.Ping(ctx); err != nil {
		o.metrics.SetNodeReady(false)
		return nil, o.fail(StagePolling, err)
	}
	o.metrics.SetNodeReady(true)

	return o.capture(ctx, start)
}

func (o *Orchestrator) capture(ctx context.Context, start time.Time) (*snapshot.Record, error) {
	record := snapshot.NewRecord(o.config.Endpoint, start)

	height, err := o.client.ProvenTip(ctx)
	if err != nil {
		return nil, o.fail(StageFetchHeight, err)
	}
	record.ProvenBlock = snapshot.ProvenBlock{Height: height, FetchedAt: o.now()}
	o.metrics.SetProvenHeight(height)
	o.logger.Info("Fetched proven block height", "height", height)

	proof, err := o.client.ArchiveSiblingPath(ctx, height)
	if err != nil {
		return nil, o.fail(StageFetchProof, err)
	}
	record.SyncProof = proof
	record.CompletedAt = o.now()
	o.logger.Info("Fetched sync proof", "height", height, "proof_length", len(proof))

	if err := o.sink.Save(record); err != nil {
		return nil, o.fail(StagePersist, err)
	}

	elapsed := o.now().Sub(start)
	o.metrics.ObserveRunDuration(elapsed)

	o.logger.Info("Sync snapshot persisted",
		"path", o.config.OutputPath,
		"height", record.ProvenBlock.Height,
		"elapsed", elapsed.Round(time.Millisecond))

	o.notifier.Send(fmt.Sprintf("✅ Sequencer sync snapshot captured\n"+
		"Endpoint: %s\n"+
		"Proven block: %d\n"+
		"Proof: %d bytes\n"+
		"Elapsed: %s",
		o.config.Endpoint, record.ProvenBlock.Height, len(record.SyncProof),
		elapsed.Round(time.Second)))

	return &record, nil
}

func (o *Orchestrator) fail(stage Stage, err error) error {
	o.metrics.RecordStageFailure(string(stage))
	o.logger.Error("Run failed", "stage", string(stage), "error", err)

	o.notifier.SendCritical(fmt.Sprintf("🚨 Sequencer check failed\n"+
		"Endpoint: %s\n"+
		"Stage: %s\n"+
		"Error: %v\n\n"+
		"Inspect the node's own logs (tmux session or docker logs) before retrying.",
		o.config.Endpoint, stage, err))

	return &StageError{Stage: stage, Err: err}
}
