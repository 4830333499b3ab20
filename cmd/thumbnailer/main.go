package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/filesystem"
	"thumbnailer/internal/handlers"
	"thumbnailer/internal/logging"
	"thumbnailer/internal/memory"
	"thumbnailer/internal/metrics"
	"thumbnailer/internal/middleware"
	"thumbnailer/internal/startup"
	"thumbnailer/internal/thumbnail"

	"github.com/gorilla/mux"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	startTime := time.Now()

	// Configure memory limit before significant allocations
	memory.ConfigureLimit()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	// Load the cache and start watching it
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cacheStart := time.Now()
	c := cache.New(config.CacheConfig(), cache.WithObserver(metrics.NewCacheObserver()))
	if err := c.Start(ctx); err != nil {
		startup.LogFatal("Failed to start cache: %v", err)
	}
	startup.LogCacheInit(c.Snapshot(), time.Since(cacheStart))

	guard := memory.NewGuard(memory.DefaultGuardConfig())
	guard.Start(ctx)
	gen := thumbnail.NewGenerator(config.ThumbnailWorkers).WithGuard(guard)
	h := handlers.New(c, gen, config.ThumbnailRoot)

	router := setupRouter(h)
	startup.LogHTTPRoutes(router)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	handler := middleware.Logger(loggingConfig)(router)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, c, cancel)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cache", h.GetCache).Methods("GET")
	api.HandleFunc("/cache/reload", h.ReloadCache).Methods("POST")
	api.HandleFunc("/cache/regenerate", h.RegenerateCache).Methods("POST")
	api.HandleFunc("/thumbnail", h.GetThumbnail).Methods("GET")

	return r
}

func newMetricsServer(port string, h *handlers.Handlers) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", h.MetricsHandler())
	metricsMux.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
		IdleTimeout:  idleTimeout,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, c *cache.Cache, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancelTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelTimeout()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Closing cache")
	cancel()
	if err := c.Close(); err != nil {
		logging.Warn("Cache close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Cache closed")
	}

	startup.LogShutdownComplete()
}
