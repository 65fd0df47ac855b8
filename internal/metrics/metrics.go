// Package metrics holds the agent's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walletd"

// Metrics is a set of collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	handshakes   *prometheus.CounterVec
	ledgerCalls  *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		handshakes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Finished handshakes by type, terminal state and reason.",
		}, []string{"type", "state", "reason"}),
		ledgerCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_call_duration_seconds",
			Help:      "Ledger RPC latency by method and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.handshakes,
		m.ledgerCalls,
		m.httpRequests,
	)
	return m
}

// HandshakeFinished counts a terminal transition
func (m *Metrics) HandshakeFinished(t model.HandshakeType, state model.HandshakeState, reason model.Reason) {
	m.handshakes.WithLabelValues(string(t), string(state), string(reason)).Inc()
}

// ObserveLedgerCall records the latency of one ledger RPC
func (m *Metrics) ObserveLedgerCall(method string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ledgerCalls.WithLabelValues(method, outcome).Observe(time.Since(started).Seconds())
}

// ObserveHTTP counts one served request
func (m *Metrics) ObserveHTTP(route string, code int) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
