// Package metrics exposes Prometheus counters for session gating and authentication.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	gateResolutions *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
	uploadURLs      *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		gateResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adhi",
			Subsystem: "gate",
			Name:      "resolutions_total",
			Help:      "Settled session gate mounts by status.",
		}, []string{"status"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adhi",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Login, registration and logout attempts by outcome.",
		}, []string{"event", "outcome"}),
		uploadURLs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adhi",
			Subsystem: "documents",
			Name:      "presigned_urls_total",
			Help:      "Presigned document URLs issued by kind.",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.gateResolutions,
		m.authEvents,
		m.uploadURLs,
	)

	return m
}

// ObserveGate counts a settled gate mount
func (m *Metrics) ObserveGate(status string) {
	if m == nil {
		return
	}
	m.gateResolutions.WithLabelValues(status).Inc()
}

// ObserveAuth counts an authentication event, e.g. ("login", "success")
func (m *Metrics) ObserveAuth(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

// ObservePresign counts an issued presigned URL ("upload" or "download")
func (m *Metrics) ObservePresign(kind string) {
	if m == nil {
		return
	}
	m.uploadURLs.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
