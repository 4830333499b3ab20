// Package startup loads the daemon configuration from environment
// variables and prints the structured startup and shutdown log.
//
// # Environment Variables
//
//	CACHE_FILE            thumbnailer cache file (default $XDG_CACHE_HOME/thumbnailers.cache)
//	CACHE_UPDATE_HELPER   update helper executable (default thumbnailer-cache-update in PATH)
//	REGENERATE_INTERVAL   periodic regeneration interval (default 5m)
//	CACHE_DISABLE_MMAP    read the cache into memory instead of mapping it (default false)
//	PORT                  HTTP port (default 8080)
//	METRICS_PORT          Prometheus port (default 9090)
//	METRICS_ENABLED       serve /metrics (default true)
//	LOG_HEALTH_CHECKS     log health check requests (default true)
//	THUMBNAIL_WORKERS     thumbnail worker pool size (default 1.5 x GOMAXPROCS, max 8)
//	THUMBNAIL_ROOT        restrict thumbnail sources to this tree (default unrestricted)
//	LOG_LEVEL             debug, info, warn or error (default info)
//
// Build information is injected at link time:
//
//	go build -ldflags "-X thumbnailer/internal/startup.Version=1.2.0"
package startup
