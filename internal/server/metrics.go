package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/njchilds90/gocrn/internal/tool"
)

// Metrics counts tool calls and their latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	known    map[string]bool
}

// NewMetrics registers the tool metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crn",
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and status.",
		}, []string{"tool", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crn",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"tool"}),
		known: map[string]bool{},
	}
	for _, name := range tool.Tools() {
		m.known[name] = true
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

// observe records one call. Unknown tool names share the "unknown" label.
func (m *Metrics) observe(name string, ok bool, d time.Duration) {
	if !m.known[name] {
		name = "unknown"
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.calls.WithLabelValues(name, status).Inc()
	m.duration.WithLabelValues(name).Observe(d.Seconds())
}
