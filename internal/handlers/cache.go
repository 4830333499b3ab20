package handlers

import (
	"net/http"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/logging"
)

// GetCache returns the state of the loaded thumbnailer cache
func (h *Handlers) GetCache(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, h.cache.Snapshot())
}

// ReloadCache reloads the cache file synchronously and returns the new state
func (h *Handlers) ReloadCache(w http.ResponseWriter, _ *http.Request) {
	logging.Info("Cache reload requested via API")
	h.cache.HandleEvent(cache.Event{Kind: cache.EventChanged})

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.cache.Snapshot())
}

// RegenerateCache asks for the update helper to run. The helper runs in
// the background, so the request is only accepted.
func (h *Handlers) RegenerateCache(w http.ResponseWriter, _ *http.Request) {
	logging.Info("Cache regeneration requested via API")
	h.cache.HandleEvent(cache.Event{Kind: cache.EventRegenerateTick})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "accepted"})
}
