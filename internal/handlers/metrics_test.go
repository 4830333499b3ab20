package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "thumbnailer/internal/metrics"
)

func TestMetricsHandler(t *testing.T) {
	h := &Handlers{}
	handler := h.MetricsHandler()
	if handler == nil {
		t.Fatal("MetricsHandler() returned nil")
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"go_goroutines", "thumbnailer_cache_fallback_active"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
