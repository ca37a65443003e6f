// Package metrics provides the Prometheus instruments of the museum server.
// A Metrics value observes the router, the live sessions and the catalog
// loader.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wgaamuseum/museum/pkg/core"
)

// Metrics holds the instruments registered with one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Navigation
	routesMatched  *prometheus.CounterVec
	routesNotFound prometheus.Counter
	imagesPreload  prometheus.Counter

	// Live sessions
	sessionsActive prometheus.Gauge
	sessionsEnded  *prometheus.CounterVec
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec

	// Catalog loader
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
}

// New registers the instruments with reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "museum_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		routesMatched: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_routes_matched_total",
				Help: "Dispatched paths by matched route pattern",
			},
			[]string{"pattern"},
		),
		routesNotFound: f.NewCounter(
			prometheus.CounterOpts{
				Name: "museum_routes_not_found_total",
				Help: "Dispatched paths that matched no route",
			},
		),
		imagesPreload: f.NewCounter(
			prometheus.CounterOpts{
				Name: "museum_images_preloaded_total",
				Help: "Image URLs sent to clients for preloading",
			},
		),

		sessionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "museum_sessions_active",
				Help: "Number of connected live sessions",
			},
		),
		sessionsEnded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_sessions_ended_total",
				Help: "Ended live sessions by reason",
			},
			[]string{"reason"},
		),
		eventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_events_total",
				Help: "Client events handled by event and result",
			},
			[]string{"event", "result"},
		),
		eventDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "museum_event_duration_seconds",
				Help:    "Client event handling time in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"event"},
		),

		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "museum_collection_fetch_duration_seconds",
				Help:    "Time to fetch one data collection",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"region", "collection"},
		),
		fetchErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_collection_fetch_errors_total",
				Help: "Failed data collection fetches",
			},
			[]string{"region", "collection"},
		),
	}
}

// Handler returns the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records every HTTP request under its chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Matched implements hashroute.Observer.
func (m *Metrics) Matched(pattern string) {
	m.routesMatched.WithLabelValues(pattern).Inc()
}

// NotFound implements hashroute.Observer.
func (m *Metrics) NotFound(string) {
	m.routesNotFound.Inc()
}

// Preloaded counts image URLs sent for preloading.
func (m *Metrics) Preloaded(count int) {
	m.imagesPreload.Add(float64(count))
}

// SessionStarted implements live.Observer.
func (m *Metrics) SessionStarted() {
	m.sessionsActive.Inc()
}

// SessionEnded implements live.Observer.
func (m *Metrics) SessionEnded(reason core.TerminateReason) {
	m.sessionsActive.Dec()
	m.sessionsEnded.WithLabelValues(reason.String()).Inc()
}

// EventHandled implements live.Observer.
func (m *Metrics) EventHandled(event string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsTotal.WithLabelValues(event, result).Inc()
	m.eventDuration.WithLabelValues(event).Observe(took.Seconds())
}

// CollectionFetched implements catalog.Observer.
func (m *Metrics) CollectionFetched(region, collection string, took time.Duration, err error) {
	m.fetchDuration.WithLabelValues(region, collection).Observe(took.Seconds())
	if err != nil {
		m.fetchErrors.WithLabelValues(region, collection).Inc()
	}
}
