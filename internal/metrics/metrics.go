// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Metadata provider (Jikan)
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_provider_requests_total",
			Help: "Total number of metadata provider search calls",
		},
		[]string{"result"}, // "success", "http_error", "transport_error", "decode_error"
	)

	ProviderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "anime_provider_request_duration_seconds",
			Help:    "Duration of metadata provider search calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "anime_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	// Sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "anime_active_sessions",
			Help: "Number of interactive sessions held in memory",
		},
	)

	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_session_events_total",
			Help: "Total number of session controller transitions",
		},
		[]string{"event"}, // "search", "select", "select_rejected", "deselect", "clear", "recommend", "stale_discarded"
	)

	// Recommendations
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"}, // "success", "invalid"
	)
)
