// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	buildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatdb_builds_total",
			Help: "Total number of build requests by dialect, template and outcome.",
		},
		[]string{"dialect", "template", "outcome"},
	)
	rejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatdb_rejections_total",
			Help: "Total number of rejected requests by reason.",
		},
		[]string{"dialect", "reason"},
	)
	examplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatdb_examples_total",
			Help: "Total number of synthesized examples.",
		},
		[]string{"dialect"},
	)
	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatdb_executions_total",
			Help: "Total number of query executions against the storage backend.",
		},
		[]string{"dialect", "outcome"},
	)
	executionDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatdb_execution_duration_seconds",
			Help:    "Query execution latency by dialect.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dialect"},
	)
)

func init() {
	prometheus.MustRegister(
		buildsTotal,
		rejectionsTotal,
		examplesTotal,
		executionsTotal,
		executionDurationSeconds,
	)
}

// ObserveBuild counts one build. template is empty when nothing was rendered.
func ObserveBuild(dialect, template, outcome string) {
	if template == "" {
		template = "none"
	}
	buildsTotal.WithLabelValues(dialect, template, outcome).Inc()
}

func ObserveRejection(dialect, reason string) {
	rejectionsTotal.WithLabelValues(dialect, reason).Inc()
}

func ObserveExamples(dialect string, n int) {
	if n > 0 {
		examplesTotal.WithLabelValues(dialect).Add(float64(n))
	}
}

func ObserveExecution(dialect, outcome string, elapsed time.Duration) {
	executionsTotal.WithLabelValues(dialect, outcome).Inc()
	executionDurationSeconds.WithLabelValues(dialect).Observe(elapsed.Seconds())
}

// WriteTextfile dumps the default registry in the node-exporter textfile
// format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
