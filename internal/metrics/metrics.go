// internal/metrics/metrics.go - Prometheus metrics
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pollAttemptsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seq_sentry_poll_attempts_total",
			Help: "Total readiness poll attempts by outcome",
		},
		[]string{"outcome"},
	)

	nodeReadyGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seq_sentry_node_ready",
			Help: "Whether the node RPC endpoint was reachable (1=ready, 0=not ready)",
		},
	)

	provenHeightGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seq_sentry_proven_block_height",
			Help: "Proven block height captured by the last run",
		},
	)

	runDurationGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seq_sentry_run_duration_seconds",
			Help: "Wall time of the last successful run",
		},
	)

	stageFailuresCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seq_sentry_stage_failures_total",
			Help: "Total run failures by stage",
		},
		[]string{"stage"},
	)
)

type Metrics struct {
	enabled bool
}

func New(enabled bool, port int) *Metrics {
	if !enabled {
		return &Metrics{enabled: false}
	}

	prometheus.MustRegister(pollAttemptsCounter)
	prometheus.MustRegister(nodeReadyGauge)
	prometheus.MustRegister(provenHeightGauge)
	prometheus.MustRegister(runDurationGauge)
	prometheus.MustRegister(stageFailuresCounter)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()

	return &Metrics{enabled: true}
}

func (m *Metrics) RecordPollAttempts(reachable, unreachable int) {
	if !m.enabled {
		return
	}
	pollAttemptsCounter.WithLabelValues("reachable").Add(float64(reachable))
	pollAttemptsCounter.WithLabelValues("unreachable").Add(float64(unreachable))
}

func (m *Metrics) SetNodeReady(ready bool) {
	if !m.enabled {
		return
	}

	value := 0.0
	if ready {
		value = 1.0
	}
	nodeReadyGauge.Set(value)
}

func (m *Metrics) SetProvenHeight(height uint64) {
	if !m.enabled {
		return
	}
	provenHeightGauge.Set(float64(height))
}

func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if !m.enabled {
		return
	}
	runDurationGauge.Set(d.Seconds())
}

func (m *Metrics) RecordStageFailure(stage string) {
	if !m.enabled {
		return
	}
	stageFailuresCounter.WithLabelValues(stage).Inc()
}
