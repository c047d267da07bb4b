// Package telemetry holds the Prometheus collectors exported on /metrics.
//
// Usage:
//
//	telemetry.RecordEvent(telemetry.ResultAccepted)
//	telemetry.ObserveStoreOperation("record_event", telemetry.OutcomeSuccess, elapsed)
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event results.
const (
	ResultAccepted     = "accepted"
	ResultInvalid      = "invalid"
	ResultDeduplicated = "deduplicated"
	ResultFailed       = "failed"
)

// Store operation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

var (
	// EventsTotal counts ingested events by result.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_events_total",
			Help: "Total number of engagement events received, by result",
		},
		[]string{"result"},
	)

	// StoreOperationDuration tracks latency of summary store calls.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_store_operation_duration_seconds",
			Help:    "Duration of summary store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation", "outcome"},
	)

	// HTTPRequestsTotal counts served requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_rate_limited_total",
			Help: "Total number of requests rejected by the per-client rate limiter",
		},
		[]string{"route"},
	)

	// StoreBreakerState is 0 closed, 1 half-open, 2 open.
	StoreBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_store_breaker_state",
			Help: "Summary store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordEvent increments the event counter for result.
func RecordEvent(result string) {
	EventsTotal.WithLabelValues(result).Inc()
}

// ObserveStoreOperation records one store call.
func ObserveStoreOperation(operation, outcome string, elapsed time.Duration) {
	StoreOperationDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one served request. route is the matched
// pattern, never the raw path, to keep cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordRateLimited increments the rate-limit counter for route.
func RecordRateLimited(route string) {
	RateLimitedTotal.WithLabelValues(route).Inc()
}

// SetBreakerState publishes the breaker state as a gauge value.
func SetBreakerState(state float64) {
	StoreBreakerState.Set(state)
}
