// Package metrics provides Prometheus instrumentation for the terms server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the terms server. Each
// instance carries its own registry so independent server instances
// (and tests) never collide on collector registration.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	TermsLookupsTotal       prometheus.Counter
	TermsPublishedTotal     prometheus.Counter
	AgreementsRecordedTotal prometheus.Counter

	ServerStartTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		ServerStartTime: time.Now(),
		registry:        reg,
	}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terms_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "terms_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "terms_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.TermsLookupsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "terms_lookups_total",
			Help: "Total number of terms document lookups",
		},
	)

	m.TermsPublishedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "terms_published_total",
			Help: "Total number of terms revisions published",
		},
	)

	m.AgreementsRecordedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "terms_agreements_recorded_total",
			Help: "Total number of agreements recorded",
		},
	)

	return m
}

// RecordHTTPRequest records a completed HTTP request. The path label
// should be the route pattern, not the raw URL, to bound cardinality.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UptimeSeconds returns the elapsed seconds since the server started.
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.ServerStartTime).Seconds()
}

// Handler returns the scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
