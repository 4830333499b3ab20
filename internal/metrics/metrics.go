package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumbnailer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbnailer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Cache metrics
var (
	CacheLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_cache_loads_total",
			Help: "Total number of cache loads by resulting backing",
		},
		[]string{"backing"}, // "mapped", "heap", "fallback"
	)

	CacheLoadFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_cache_load_failures_total",
			Help: "Total number of cache loads that fell back, by reason",
		},
		[]string{"reason"}, // "source-unavailable", "format-invalid", "read-failure"
	)

	CacheLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thumbnailer_cache_load_duration_seconds",
			Help:    "Cache load duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	CacheReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thumbnailer_cache_reloads_total",
			Help: "Total number of cache reloads",
		},
	)

	CacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbnailer_cache_size_bytes",
			Help: "Length of the currently loaded cache blob in bytes",
		},
	)

	CacheFallbackActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbnailer_cache_fallback_active",
			Help: "Whether the static fallback cache is loaded (1 = fallback, 0 = real cache)",
		},
	)

	CacheWatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_cache_watcher_events_total",
			Help: "Total number of cache state machine events by kind",
		},
		[]string{"event"},
	)
)

// Regeneration metrics
var (
	RegenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_regenerations_total",
			Help: "Total number of regeneration requests by outcome",
		},
		[]string{"outcome"}, // "spawned", "skipped", "failed"
	)

	RegenerationRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbnailer_regeneration_running",
			Help: "Whether a cache update helper is currently running (1 = running, 0 = idle)",
		},
	)

	RegenerationExitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_regeneration_exits_total",
			Help: "Total number of cache update helper exits by result",
		},
		[]string{"result"}, // "updated", "unchanged", "signaled"
	)

	RegenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thumbnailer_regeneration_duration_seconds",
			Help:    "Cache update helper run time in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"flavor", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumbnailer_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"flavor"},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retries after ESTALE",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that exhausted their retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnailer_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors observed",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumbnailer_filesystem_retry_duration_seconds",
			Help:    "Duration of retried filesystem operations in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbnailer_memory_usage_ratio",
			Help: "Heap usage as a ratio of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbnailer_memory_paused",
			Help: "Whether thumbnail work is held back for memory pressure (1 = paused)",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "thumbnailer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
