// Package metrics defines the Prometheus instruments exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend API client metrics
var (
	// BackendRequestsTotal tracks outbound backend requests by method and status
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total backend API requests by method and response status",
		},
		[]string{"method", "status"},
	)

	// BackendRequestDuration tracks backend request latency in seconds
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Backend API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method"},
	)

	// TokenRefreshesTotal tracks token refresh attempts by outcome (success/failure)
	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "Total access token refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	// TokenRefreshWaiters tracks how many callers piggybacked on a single refresh
	TokenRefreshWaiters = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "token_refresh_waiters",
			Help:    "Number of requests waiting on a single in-flight token refresh",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	// ForcedLogoutsTotal tracks sessions terminated by a failed refresh
	ForcedLogoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forced_logouts_total",
			Help: "Total sessions terminated because the token refresh failed",
		},
	)
)

// Circuit breaker metrics
var (
	// CircuitBreakerStateChanges tracks breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks the current breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Web layer metrics
var (
	// PDFDownloadsTotal tracks PDFs fetched from the backend by kind (invoice/public)
	PDFDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_downloads_total",
			Help: "Total PDFs generated by the backend, by kind",
		},
		[]string{"kind"},
	)

	// ExportsTotal tracks spreadsheet exports
	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Total invoice spreadsheet exports",
		},
	)

	// ActiveAPIClients tracks per-session API clients currently pooled
	ActiveAPIClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_api_clients",
			Help: "Per-session backend API clients currently held in the pool",
		},
	)

	// RateLimitedRequestsTotal tracks public requests rejected by the limiter
	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total public requests rejected by the per-IP rate limiter",
		},
	)
)
