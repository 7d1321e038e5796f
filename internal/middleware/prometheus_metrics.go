package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/metrics"
	"go.uber.org/zap"
)

// MetricsMiddleware collects HTTP metrics for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.Request.URL.Path
		m.HTTPActiveConnections.WithLabelValues(method, path).Inc()
		defer m.HTTPActiveConnections.WithLabelValues(method, path).Dec()

		contentLength := c.Request.ContentLength
		if contentLength > 0 {
			m.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(contentLength))
		}

		// Wrap response writer to capture response size and status
		writer := &metricsResponseWriter{
			ResponseWriter: c.Writer,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		startTime := time.Now()
		c.Next()
		duration := time.Since(startTime).Seconds()

		status := c.Writer.Status()
		// Numeric status code as string (e.g., "200", "500") so Grafana
		// queries like status=~"5.." match 5xx errors
		statusStr := strconv.Itoa(status)

		m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		responseSize := writer.body.Len()
		if responseSize > 0 {
			m.HTTPResponseSize.WithLabelValues(method, path, statusStr).Observe(float64(responseSize))
		}

		logger.Log.Debug("HTTP request recorded",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Float64("duration_sec", duration),
			zap.Int("response_size", responseSize),
		)
	}
}

// RecordRateLimitExceeded records a rate limiting event
func RecordRateLimitExceeded(endpoint, method string) {
	metrics.Get().RateLimitExceededTotal.WithLabelValues(endpoint, method).Inc()
}

// RecordFeedGeneration records how long a feed took to build
func RecordFeedGeneration(feedType string, duration time.Duration) {
	metrics.Get().FeedGenerationTime.WithLabelValues(feedType).Observe(duration.Seconds())
}

// RecordEngagement records an engagement action against a category
func RecordEngagement(action, category string) {
	metrics.Get().EngagementsTotal.WithLabelValues(action, category).Inc()
}

// RecordViewCompletion records a simulated playback completion
func RecordViewCompletion(contentType string) {
	metrics.Get().ViewCompletionsTotal.WithLabelValues(contentType).Inc()
}

// RecordSwipeTransition records a committed swipe transition
func RecordSwipeTransition(direction string) {
	metrics.Get().SwipeTransitionsTotal.WithLabelValues(direction).Inc()
}

// RecordGeneration records a generative tool request
func RecordGeneration(tool, status string, duration time.Duration) {
	m := metrics.Get()
	m.GenerationRequestsTotal.WithLabelValues(tool, status).Inc()
	m.GenerationDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordError records an error by type and endpoint
func RecordError(errorType, endpoint string) {
	metrics.Get().ErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// metricsResponseWriter intercepts response writes to capture size and status
type metricsResponseWriter struct {
	gin.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (w *metricsResponseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *metricsResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
