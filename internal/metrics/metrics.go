// Package metrics holds the gateway's Prometheus collectors, trimmed to
// the three surfaces SPEC_FULL §2.2 lists: RPC traffic, tool-call
// outcomes, and broker refresh activity. Grounded on
// apps/edge-mcp/internal/metrics's promauto-registered collector set,
// dropping the session/cache/websocket metrics this system has no
// analogue for.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mcp_gateway"

// Metrics holds every Prometheus collector the gateway registers.
type Metrics struct {
	RPCRequestsTotal *prometheus.CounterVec

	ToolCallDuration *prometheus.HistogramVec
	ToolCallsTotal   *prometheus.CounterVec

	BrokerRefreshesTotal *prometheus.CounterVec
}

// New creates and registers every collector against the default registry.
func New() *Metrics {
	return &Metrics{
		RPCRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Total number of JSON-RPC requests handled, by method",
			},
			[]string{"method"},
		),

		ToolCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Duration of tool calls in seconds, by provider and tool",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "tool"},
		),

		ToolCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool calls, by provider, tool, and outcome",
			},
			[]string{"provider", "tool", "outcome"},
		),

		BrokerRefreshesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "broker_refreshes_total",
				Help:      "Total number of OAuth token refreshes attempted by the broker, by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
	}
}

// RecordRPCRequest implements gateway.Recorder.
func (m *Metrics) RecordRPCRequest(method string) {
	m.RPCRequestsTotal.WithLabelValues(method).Inc()
}

// RecordToolCall implements gateway.Recorder.
func (m *Metrics) RecordToolCall(provider, tool, outcome string) {
	m.ToolCallsTotal.WithLabelValues(provider, tool, outcome).Inc()
}

// StartToolCallTimer returns a function that records the call's duration
// when invoked. Usage: defer m.StartToolCallTimer(provider, tool)()
func (m *Metrics) StartToolCallTimer(provider, tool string) func() {
	start := time.Now()
	return func() {
		m.ToolCallDuration.WithLabelValues(provider, tool).Observe(time.Since(start).Seconds())
	}
}

// RecordBrokerRefresh records an OAuth token refresh attempt's outcome.
func (m *Metrics) RecordBrokerRefresh(provider, outcome string) {
	m.BrokerRefreshesTotal.WithLabelValues(provider, outcome).Inc()
}
