// internal/poller/poller.go - Readiness polling with a bounded wait budget
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrTimedOut is the terminal outcome of a wait that exhausted its budget
// without ever reaching the node.
var ErrTimedOut = errors.New("timed out waiting for node to become reachable")

// Clock abstracts wall time and sleeping so waits can be driven by a fake
// clock in tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// HealthChecker is the probe issued each tick. An error means "not reachable
// this tick" and is swallowed; only the wait budget is terminal.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Poller struct {
	checker  HealthChecker
	clock    Clock
	logger   *slog.Logger
	attempts *AttemptLog
}

// Result is the terminal outcome of one wait. Ready=false with a nil error
// from Wait means the budget ran out.
type Result struct {
	Ready    bool
	Attempts int
	Elapsed  time.Duration
}

func New(checker HealthChecker, logger *slog.Logger) *Poller {
	return &Poller{
		checker:  checker,
		clock:    realClock{},
		logger:   logger,
		attempts: NewAttemptLog(),
	}
}

// Attempts exposes the per-tick attempt records of the most recent wait.
func (p *Poller) Attempts() *AttemptLog {
	return p.attempts
}

// Wait probes the node at interval cadence until it answers or maxWait
// elapses. The deadline is checked after every failed attempt, so a timeout
// lands within one interval of the budget. Per-attempt network errors are
// logged at debug and recorded, never returned.
func (p *Poller) Wait(ctx context.Context, maxWait, interval time.Duration) (Result, error) {
	if maxWait <= 0 {
		return Result{}, fmt.Errorf("max wait must be positive, got %v", maxWait)
	}
	if interval <= 0 || interval > maxWait {
		return Result{}, fmt.Errorf("interval must be positive and at most max wait, got %v", interval)
	}

	p.attempts.Reset()
	start := p.clock.Now()

	for attempt := 1; ; attempt++ {
		err := p.checker.Ping(ctx)
		now := p.clock.Now()
		p.attempts.Record(now, err)

		if err == nil {
			result := Result{Ready: true, Attempts: attempt, Elapsed: now.Sub(start)}
			p.logger.Info("Node is reachable",
				"attempts", result.Attempts,
				"elapsed", result.Elapsed)
			return result, nil
		}

		p.logger.Debug("Node not reachable yet", "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			return Result{Attempts: attempt, Elapsed: now.Sub(start)}, ctx.Err()
		}

		elapsed := now.Sub(start)
		if elapsed >= maxWait {
			p.logger.Warn("Gave up waiting for node",
				"attempts", attempt,
				"elapsed", elapsed,
				"max_wait", maxWait)
			return Result{Attempts: attempt, Elapsed: elapsed}, nil
		}

		if err := p.clock.Sleep(ctx, interval); err != nil {
			return Result{Attempts: attempt, Elapsed: p.clock.Now().Sub(start)}, err
		}
	}
}
