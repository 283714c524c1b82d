// Package metrics provides Prometheus metrics for the leaguelens analysis service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the leaguelens service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Loader metrics - upstream snapshot ingestion
	snapshotFetches     *prometheus.CounterVec
	snapshotFetchErrors *prometheus.CounterVec
	snapshotEntries     *prometheus.CounterVec
	probeMisses         prometheus.Counter
	fetchLatency        prometheus.Histogram
	breakerOpen         *prometheus.CounterVec

	// View metrics - recomputation performance
	viewComputeDuration prometheus.Histogram
	refreshCount        prometheus.Counter
	staleBatchDiscards  prometheus.Counter
	topicCount          prometheus.Gauge
	profileCount        prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error classification metrics
	errorsByEndpoint *prometheus.CounterVec
	errorsByType     *prometheus.CounterVec
	errorLatency     *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leaguelens",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Loader metrics - upstream snapshot ingestion health
	m.snapshotFetches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_fetches_total",
			Help:      "Total number of snapshot documents fetched by source and period",
		},
		[]string{"source", "period"},
	)

	m.snapshotFetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_fetch_errors_total",
			Help:      "Total number of failed snapshot fetches by source and period",
		},
		[]string{"source", "period"},
	)

	m.snapshotEntries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_entries_total",
			Help:      "Total number of normalized leaderboard entries ingested",
		},
		[]string{"source", "period"},
	)

	m.probeMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "probe_misses_total",
		Help:      "Total number of topics with no snapshot inside the lookback window",
	})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_latency_milliseconds",
		Help:      "Histogram of upstream document fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.breakerOpen = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "breaker_open_total",
			Help:      "Total number of requests rejected by an open circuit breaker",
		},
		[]string{"source"},
	)

	// View metrics - recomputation performance
	m.viewComputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_compute_duration_milliseconds",
		Help:      "Duration of a full view recomputation in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.refreshCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_total",
		Help:      "Total number of snapshot refresh batches completed",
	})

	m.staleBatchDiscards = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_batch_discards_total",
		Help:      "Total number of refresh batches discarded because a newer batch finished first",
	})

	m.topicCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "topic_count",
		Help:      "Number of topics in the currently published snapshot set",
	})

	m.profileCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_count",
		Help:      "Number of unique profiles in the last computed view",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error classification metrics
	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method, and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of failed operations in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average garbage collection pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the custom Prometheus registry serving this process.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level record helpers operating on the global manager.

// RecordSnapshotFetch counts one successful snapshot document fetch.
func RecordSnapshotFetch(source, period string) {
	if globalManager.enabled {
		globalManager.snapshotFetches.WithLabelValues(source, period).Inc()
	}
}

// RecordSnapshotFetchError counts one failed snapshot fetch.
func RecordSnapshotFetchError(source, period string) {
	if globalManager.enabled {
		globalManager.snapshotFetchErrors.WithLabelValues(source, period).Inc()
	}
}

// RecordSnapshotEntries counts normalized entries ingested from one document.
func RecordSnapshotEntries(source, period string, n int) {
	if globalManager.enabled {
		globalManager.snapshotEntries.WithLabelValues(source, period).Add(float64(n))
	}
}

// RecordProbeMiss counts a topic whose lookback probe found no snapshot.
func RecordProbeMiss() {
	if globalManager.enabled {
		globalManager.probeMisses.Inc()
	}
}

// RecordFetchLatency observes the latency of one upstream fetch.
func RecordFetchLatency(ms float64) {
	if globalManager.enabled {
		globalManager.fetchLatency.Observe(ms)
	}
}

// RecordBreakerOpen counts a request rejected by an open circuit breaker.
func RecordBreakerOpen(source string) {
	if globalManager.enabled {
		globalManager.breakerOpen.WithLabelValues(source).Inc()
	}
}

// RecordViewComputeDuration observes one full view recomputation.
func RecordViewComputeDuration(ms float64) {
	if globalManager.enabled {
		globalManager.viewComputeDuration.Observe(ms)
	}
}

// RecordRefresh counts one completed refresh batch.
func RecordRefresh() {
	if globalManager.enabled {
		globalManager.refreshCount.Inc()
	}
}

// RecordStaleBatchDiscard counts one refresh batch dropped in favor of a newer one.
func RecordStaleBatchDiscard() {
	if globalManager.enabled {
		globalManager.staleBatchDiscards.Inc()
	}
}

// UpdateTopicCount sets the size of the published topic catalog.
func UpdateTopicCount(n int) {
	if globalManager.enabled {
		globalManager.topicCount.Set(float64(n))
	}
}

// UpdateProfileCount sets the number of profiles in the last computed view.
func UpdateProfileCount(n int) {
	if globalManager.enabled {
		globalManager.profileCount.Set(float64(n))
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}

// RecordErrorByEndpoint counts one error against an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorByType counts one error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorLatency observes the latency of one failed operation.
func RecordErrorLatency(component, errorType string, ms float64) {
	if globalManager.enabled {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(ms)
	}
}

// UpdateSystemMemoryUsage sets the current allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(n int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(n))
	}
}

// RecordSystemGCPauseTime observes the average GC pause time.
func RecordSystemGCPauseTime(ms float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(ms)
	}
}
