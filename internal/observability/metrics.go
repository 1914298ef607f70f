// Package observability exposes the executor's Prometheus collectors.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the executor's counters and histograms. A nil *Metrics
// is a valid no-op receiver so instrumentation stays optional.
type Metrics struct {
	processesStarted  *prometheus.CounterVec
	processesFinished *prometheus.CounterVec
	toolCalls         *prometheus.CounterVec
	turnDuration      prometheus.Histogram
}

// New registers the collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		processesStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aurin",
			Subsystem: "executor",
			Name:      "processes_started_total",
			Help:      "Processes started, by process id.",
		}, []string{"process_id"}),
		processesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aurin",
			Subsystem: "executor",
			Name:      "processes_finished_total",
			Help:      "Processes reaching a terminal status, by process id and status.",
		}, []string{"process_id", "status"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aurin",
			Subsystem: "executor",
			Name:      "tool_calls_total",
			Help:      "Tool invocations, by tool and outcome.",
		}, []string{"tool", "outcome"}),
		turnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aurin",
			Subsystem: "executor",
			Name:      "turn_duration_seconds",
			Help:      "Wall time of one processed message.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ProcessStarted records a process start.
func (m *Metrics) ProcessStarted(processID string) {
	if m == nil {
		return
	}
	m.processesStarted.WithLabelValues(processID).Inc()
}

// ProcessFinished records a terminal status.
func (m *Metrics) ProcessFinished(processID, status string) {
	if m == nil {
		return
	}
	m.processesFinished.WithLabelValues(processID, status).Inc()
}

// ToolCall records one tool invocation outcome ("ok" or "error").
func (m *Metrics) ToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// Turn records the duration of one processed message.
func (m *Metrics) Turn(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.turnDuration.Observe(elapsed.Seconds())
}
