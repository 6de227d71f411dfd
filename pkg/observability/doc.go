// Package observability provides structured logging, Prometheus metrics,
// health checks, and graceful shutdown for the Millii access layer.
//
// # Logging
//
// Logger wraps log/slog with a JSON handler and contextual field chaining:
//
//	log := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	log.WithComponent("store").WithField("user_id", id).Info("permissions loaded")
//
// FromContext recovers a request-scoped logger enriched with the request id
// and session user id placed in the context by the HTTP middleware.
//
// # Metrics
//
// NewMetrics registers counters and histograms for HTTP traffic, guard
// decisions, permission fetches (including discarded stale results), service
// side resolutions per cache layer, and override edits:
//
//	metrics, registry := observability.NewDefaultMetrics()
//	mux.Handle("/metrics", observability.Handler(registry))
//
// # Health
//
// HealthChecker exposes liveness and readiness probes. The database is a
// hard dependency; Redis is a cache and only degrades the status.
//
// # Shutdown
//
// ShutdownManager drains the HTTP server on SIGINT/SIGTERM and then runs
// registered cleanup hooks with a shared deadline.
package observability
