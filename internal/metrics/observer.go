package metrics

import (
	"errors"
	"time"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/filesystem"
)

// filesystemObserver implements filesystem.Observer using the Prometheus
// metrics declared in this package.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records filesystem retry
// metrics into the counters and histograms declared in metrics.go.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveRetryAttempt(op string) {
	FilesystemRetryAttempts.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(op string) {
	FilesystemRetrySuccess.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(op string) {
	FilesystemRetryFailures.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryDuration(op string, durationSeconds float64) {
	FilesystemRetryDuration.WithLabelValues(op).Observe(durationSeconds)
}

func (o *filesystemObserver) ObserveStaleError(op string) {
	FilesystemStaleErrors.WithLabelValues(op).Inc()
}

// cacheObserver implements cache.Observer.
type cacheObserver struct{}

// NewCacheObserver creates an observer that records cache loads, events
// and regeneration jobs.
func NewCacheObserver() cache.Observer {
	return &cacheObserver{}
}

func (o *cacheObserver) ObserveLoad(backing cache.Backing, size int, duration time.Duration, err error) {
	CacheLoadsTotal.WithLabelValues(backing.String()).Inc()
	CacheLoadDuration.Observe(duration.Seconds())
	CacheSizeBytes.Set(float64(size))
	if backing == cache.BackingFallback {
		CacheFallbackActive.Set(1)
	} else {
		CacheFallbackActive.Set(0)
	}

	var loadErr *cache.LoadError
	if errors.As(err, &loadErr) {
		CacheLoadFailuresTotal.WithLabelValues(string(loadErr.Reason)).Inc()
	}
}

func (o *cacheObserver) ObserveReload() {
	CacheReloadsTotal.Inc()
}

func (o *cacheObserver) ObserveEvent(kind cache.EventKind) {
	CacheWatcherEventsTotal.WithLabelValues(kind.String()).Inc()
}

func (o *cacheObserver) ObserveRegeneration(outcome cache.RegenerationOutcome) {
	RegenerationsTotal.WithLabelValues(string(outcome)).Inc()
	if outcome == cache.RegenerationSpawned {
		RegenerationRunning.Set(1)
	}
}

func (o *cacheObserver) ObserveHelperExit(status cache.ExitStatus, runtime time.Duration) {
	RegenerationRunning.Set(0)
	RegenerationDuration.Observe(runtime.Seconds())
	RegenerationExitsTotal.WithLabelValues(exitResult(status)).Inc()
}

func exitResult(status cache.ExitStatus) string {
	switch {
	case status.Updated():
		return "updated"
	case status.Exited:
		return "unchanged"
	default:
		return "signaled"
	}
}
