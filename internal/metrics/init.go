package metrics

import "thumbnailer/internal/cache"

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, b := range []cache.Backing{cache.BackingMapped, cache.BackingHeap, cache.BackingFallback} {
		CacheLoadsTotal.WithLabelValues(b.String())
	}

	for _, r := range []cache.Reason{cache.ReasonSourceUnavailable, cache.ReasonFormatInvalid, cache.ReasonReadFailure} {
		CacheLoadFailuresTotal.WithLabelValues(string(r))
	}

	for _, k := range []cache.EventKind{cache.EventChanged, cache.EventDeleted, cache.EventRegenerateTick, cache.EventHelperExited} {
		CacheWatcherEventsTotal.WithLabelValues(k.String())
	}

	for _, o := range []cache.RegenerationOutcome{cache.RegenerationSpawned, cache.RegenerationSkipped, cache.RegenerationFailed} {
		RegenerationsTotal.WithLabelValues(string(o))
	}

	for _, r := range []string{"updated", "unchanged", "signaled"} {
		RegenerationExitsTotal.WithLabelValues(r)
	}

	for _, op := range []string{"open", "stat"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}

	for _, flavor := range []string{"normal", "large"} {
		ThumbnailGenerationDuration.WithLabelValues(flavor)
		for _, status := range []string{"success", "error", "error_unsupported", "error_decode"} {
			ThumbnailGenerationsTotal.WithLabelValues(flavor, status)
		}
	}
}
