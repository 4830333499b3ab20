// Package metrics provides Prometheus instrumentation for the thumbnailer
// daemon.
//
// All metrics are prefixed with "thumbnailer_" and registered with the
// default registry through promauto.
//
// # Metric Categories
//
// ## Cache Metrics
//
//   - CacheLoadsTotal: Counter of loads by backing (mapped/heap/fallback)
//   - CacheLoadFailuresTotal: Counter of fallbacks by reason
//   - CacheLoadDuration: Histogram of load duration
//   - CacheReloadsTotal: Counter of reloads
//   - CacheSizeBytes: Gauge of the loaded blob length
//   - CacheFallbackActive: Gauge, 1 while the static fallback is loaded
//   - CacheWatcherEventsTotal: Counter of state machine events by kind
//
// ## Regeneration Metrics
//
//   - RegenerationsTotal: Counter of requests by outcome (spawned/skipped/failed)
//   - RegenerationRunning: Gauge, 1 while the update helper runs
//   - RegenerationExitsTotal: Counter of helper exits (updated/unchanged/signaled)
//   - RegenerationDuration: Histogram of helper run time
//
// ## HTTP, Thumbnail, Filesystem and Memory Metrics
//
// Request counters and latency, thumbnail generation by flavor and status,
// NFS retry counters for the cache file's open and stat, and memory
// guard usage and pause gauges.
//
// # Observers
//
// The cache and filesystem packages report through interfaces so they do
// not import this package:
//
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	c := cache.New(cfg, cache.WithObserver(metrics.NewCacheObserver()))
//
// # Prometheus Queries
//
// Share of time spent on the fallback cache:
//
//	avg_over_time(thumbnailer_cache_fallback_active[1h])
//
// Helper runs that rebuilt the cache:
//
//	rate(thumbnailer_regeneration_exits_total{result="updated"}[1h])
package metrics
