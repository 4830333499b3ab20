package handlers

import (
	"net/http"
	"runtime"
	"time"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Ready        bool   `json:"ready"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	Backing      string `json:"backing"`
	Regenerating bool   `json:"regenerating"`
	LastLoaded   string `json:"lastLoaded,omitempty"`
	LastError    string `json:"lastError,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

func cacheReady(info cache.Info) bool {
	return info.Backing != cache.BackingNone.String()
}

// HealthCheck returns the health status of the service. Running on the
// fallback cache is reported as degraded but still ready.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	info := h.cache.Snapshot()
	ready := cacheReady(info)

	response := HealthResponse{
		Ready:        ready,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Backing:      info.Backing,
		Regenerating: info.Regenerating,
		LastError:    info.LastError,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	switch {
	case !ready:
		response.Status = statusStarting
	case info.Backing == cache.BackingFallback.String():
		response.Status = statusDegraded
	default:
		response.Status = statusHealthy
	}

	if !info.LoadedAt.IsZero() {
		response.LastLoaded = info.LoadedAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")

	// Return 503 only if not ready at all
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness check (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 once a cache blob is loaded
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if cacheReady(h.cache.Snapshot()) {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
