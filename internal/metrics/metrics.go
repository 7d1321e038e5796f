// Package metrics exposes Prometheus metrics for the HTTP layer, the
// feed ranker, playback, and the generative tools.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPRequestSize       prometheus.HistogramVec
	HTTPResponseSize      prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Feed metrics
	FeedGenerationTime prometheus.HistogramVec

	// Engagement metrics
	EngagementsTotal prometheus.CounterVec

	// Playback metrics
	ViewCompletionsTotal  prometheus.CounterVec
	SwipeTransitionsTotal prometheus.CounterVec

	// Generative tool metrics
	GenerationRequestsTotal prometheus.CounterVec
	GenerationDuration      prometheus.HistogramVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			// HTTP metrics
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_size_bytes",
					Help:    "HTTP request body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path"},
			),
			HTTPResponseSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			// Rate limiting metrics
			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			// Feed metrics
			FeedGenerationTime: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Time to rank and build a feed in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"feed_type"},
			),

			// Engagement metrics
			EngagementsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "engagements_total",
					Help: "Total number of engagements recorded by action and category",
				},
				[]string{"action", "category"},
			),

			// Playback metrics
			ViewCompletionsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "view_completions_total",
					Help: "Total number of simulated playback completions",
				},
				[]string{"content_type"},
			),
			SwipeTransitionsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "swipe_transitions_total",
					Help: "Total number of committed swipe transitions",
				},
				[]string{"direction"},
			),

			// Generative tool metrics
			GenerationRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "generation_requests_total",
					Help: "Total number of generative tool requests",
				},
				[]string{"tool", "status"},
			),
			GenerationDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "generation_duration_seconds",
					Help:    "Generative tool request latency in seconds",
					Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
				},
				[]string{"tool"},
			),

			// Error metrics
			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
