// Package observability holds the metrics and tracing adapters: Prometheus
// for the long-running API server, CloudWatch and X-Ray on Lambda, and
// OpenTelemetry spans for HTTP requests.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Each instance
// owns its registry, so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	DashboardsCreated    prometheus.Counter
	DashboardsPublished  prometheus.Counter
	ConcurrencyConflicts *prometheus.CounterVec
}

// NewMetrics registers the collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DashboardsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboards_created_total",
			Help:      "Dashboards created",
		}),
		DashboardsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboards_published_total",
			Help:      "Dashboards published",
		}),
		ConcurrencyConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "concurrency_conflicts_total",
			Help:      "Writes rejected because the client held a stale updatedAt",
		}, []string{"resource"}),
	}
}

// RecordHTTPRequest counts a served request under its status class.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) DashboardCreated()   { m.DashboardsCreated.Inc() }
func (m *Metrics) DashboardPublished() { m.DashboardsPublished.Inc() }

func (m *Metrics) ConcurrencyConflict(resource string) {
	m.ConcurrencyConflicts.WithLabelValues(resource).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the Prometheus registry for this instance.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
