package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the collectors of the service, registered on a private
// registry served at /metrics. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	transitions         *prometheus.CounterVec
	rejectedTransitions *prometheus.CounterVec
	auditFailures       prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpLatency         *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lma",
			Name:      "item_transitions_total",
			Help:      "Status transitions applied to items.",
		}, []string{"from", "to", "direction"}),
		rejectedTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lma",
			Name:      "item_transitions_rejected_total",
			Help:      "Status transitions rejected by the workflow guard.",
		}, []string{"status", "reason"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lma",
			Name:      "audit_write_failures_total",
			Help:      "Audit entries that could not be written.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lma",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lma",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.Registry.MustRegister(
		m.transitions,
		m.rejectedTransitions,
		m.auditFailures,
		m.httpRequests,
		m.httpLatency,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) TransitionApplied(from, to, direction string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to, direction).Inc()
}

func (m *Metrics) TransitionRejected(status, reason string) {
	if m == nil {
		return
	}
	m.rejectedTransitions.WithLabelValues(status, reason).Inc()
}

func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}
