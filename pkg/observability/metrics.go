package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the access layer
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Guard metrics
	GuardDecisionsTotal *prometheus.CounterVec

	// Permission store metrics
	PermissionFetchesTotal  *prometheus.CounterVec
	PermissionFetchDuration prometheus.Histogram
	StaleFetchesDiscarded   prometheus.Counter

	// Service-side resolution metrics
	EffectiveResolutionsTotal *prometheus.CounterVec
	OverrideEditsTotal        *prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal          *prometheus.CounterVec
	CacheMissesTotal        *prometheus.CounterVec
	CacheInvalidationsTotal prometheus.Counter

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "millii_access_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "millii_access_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		GuardDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "millii_access_guard_decisions_total",
				Help: "Route guard decisions by outcome",
			},
			[]string{"outcome"}, // loading, allowed, denied
		),
		PermissionFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "millii_access_permission_fetches_total",
				Help: "Effective permission fetches by result",
			},
			[]string{"result"}, // ok, failed
		),
		PermissionFetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "millii_access_permission_fetch_duration_seconds",
				Help:    "Effective permission fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		StaleFetchesDiscarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "millii_access_stale_fetches_discarded_total",
				Help: "Permission fetch results discarded because a newer fetch superseded them",
			},
		),
		EffectiveResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "millii_access_effective_resolutions_total",
				Help: "Service-side effective permission resolutions by source",
			},
			[]string{"source"}, // lru, redis, sql
		),
		OverrideEditsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "millii_access_override_edits_total",
				Help: "Per-user permission override edits",
			},
			[]string{"action"}, // set, delete
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "millii_access_cache_hits_total",
				Help: "Cache hits by layer",
			},
			[]string{"layer"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "millii_access_cache_misses_total",
				Help: "Cache misses by layer",
			},
			[]string{"layer"},
		),
		CacheInvalidationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "millii_access_cache_invalidations_total",
				Help: "Effective permission cache invalidations",
			},
		),
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "millii_access_db_connections_active",
				Help: "Active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "millii_access_db_connections_idle",
				Help: "Idle database connections",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GuardDecisionsTotal,
		m.PermissionFetchesTotal,
		m.PermissionFetchDuration,
		m.StaleFetchesDiscarded,
		m.EffectiveResolutionsTotal,
		m.OverrideEditsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheInvalidationsTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
	)

	return m
}

// NewDefaultMetrics creates metrics registered against a fresh registry and
// returns both.
func NewDefaultMetrics() (*Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	return NewMetrics(registry), registry
}

// Handler returns an HTTP handler exposing the registry in Prometheus format
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps an HTTP handler with request count and duration
// metrics. The path label is the route template, not the raw URL, to keep
// cardinality bounded.
func (m *Metrics) InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
