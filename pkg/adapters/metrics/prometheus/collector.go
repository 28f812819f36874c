package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements MetricsRecorder using Prometheus
type Collector struct {
	registry *prometheus.Registry

	pageViews     prometheus.Counter
	storeErrors   *prometheus.CounterVec
	storeUp       prometheus.Gauge
	eventsDropped prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewCollector creates a new Prometheus metrics collector on its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		pageViews: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "visits_page_views_total",
				Help: "Total number of counted index page views",
			},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visits_store_errors_total",
				Help: "Total number of failed counter store calls",
			},
			[]string{"operation"},
		),
		storeUp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "visits_store_up",
				Help: "Whether the counter store answered its last liveness probe",
			},
		),
		eventsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "visits_events_dropped_total",
				Help: "Total number of visit events a slow subscriber missed",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visits_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visits_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"route"},
		),
	}
}

// RecordPageView increments the count of counted page views
func (c *Collector) RecordPageView() {
	c.pageViews.Inc()
}

// RecordStoreError increments the count of failed store calls
func (c *Collector) RecordStoreError(operation string) {
	c.storeErrors.WithLabelValues(operation).Inc()
}

// SetStoreUp records the result of the last liveness probe
func (c *Collector) SetStoreUp(up bool) {
	if up {
		c.storeUp.Set(1)
		return
	}
	c.storeUp.Set(0)
}

// RecordEventDropped increments the count of dropped visit events
func (c *Collector) RecordEventDropped() {
	c.eventsDropped.Inc()
}

// ObserveHTTPRequest records a served HTTP request
func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns the HTTP handler exposing the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
