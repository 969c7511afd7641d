package offerskit

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the SDK's request
// lifecycle: API calls, retries, token refreshes and offers-cache behavior.
// All methods are nil-safe so the client can run without metrics.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	tokenRefreshesTotal prometheus.Counter

	errorsTotal *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer. Tests pass a fresh registry to avoid duplicate registration.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "offerskit_requests_total",
				Help: "Total number of Offers API calls made",
			},
			[]string{"operation", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "offerskit_request_duration_seconds",
				Help:    "Duration of Offers API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status_code"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "offerskit_requests_in_flight",
				Help: "Number of Offers API calls currently in flight",
			},
			[]string{"operation"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "offerskit_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"operation", "attempt"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "offerskit_cache_hits_total",
				Help: "Total number of offers cache hits",
			},
			[]string{"operation"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "offerskit_cache_misses_total",
				Help: "Total number of offers cache misses",
			},
			[]string{"operation"},
		),
		tokenRefreshesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "offerskit_token_refreshes_total",
				Help: "Total number of access token refreshes",
			},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "offerskit_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type", "operation"},
		),
		registry: registry,
	}
}

// RecordRequest records call count and duration.
func (mc *MetricsCollector) RecordRequest(operation string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(operation, code).Inc()
	mc.requestDuration.WithLabelValues(operation, code).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(operation string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(operation).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(operation string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(operation).Dec()
}

// RecordRetry increments the retry counter for an attempt.
func (mc *MetricsCollector) RecordRetry(operation string, attempt int) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(operation, strconv.Itoa(attempt)).Inc()
}

// RecordCacheHit increments the cache hit counter.
func (mc *MetricsCollector) RecordCacheHit(operation string) {
	if mc == nil {
		return
	}
	mc.cacheHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (mc *MetricsCollector) RecordCacheMiss(operation string) {
	if mc == nil {
		return
	}
	mc.cacheMisses.WithLabelValues(operation).Inc()
}

// RecordTokenRefresh increments the token refresh counter.
func (mc *MetricsCollector) RecordTokenRefresh() {
	if mc == nil {
		return
	}
	mc.tokenRefreshesTotal.Inc()
}

// RecordError increments the error counter by type.
func (mc *MetricsCollector) RecordError(errorType, operation string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorType, operation).Inc()
}
