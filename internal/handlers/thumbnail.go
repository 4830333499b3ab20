package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"thumbnailer/internal/logging"
	"thumbnailer/internal/thumbnail"
)

// GetThumbnail renders a PNG thumbnail for the file named by the path
// query parameter.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filePath := query.Get("path")

	logging.Debug("Thumbnail requested: %s", filePath)

	if filePath == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}
	if !filepath.IsAbs(filePath) {
		writeJSONError(w, "path must be absolute", http.StatusBadRequest)
		return
	}
	fullPath := filepath.Clean(filePath)

	if h.thumbRoot != "" && !isSubPath(h.thumbRoot, fullPath) {
		logging.Warn("Thumbnail: path outside thumbnail root: %s", fullPath)
		writeJSONError(w, "invalid path", http.StatusBadRequest)
		return
	}

	flavor, err := thumbnail.ParseFlavor(query.Get("flavor"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	fileInfo, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("Thumbnail: file not found: %s", fullPath)
			writeJSONError(w, "file not found", http.StatusNotFound)
		} else {
			logging.Error("Thumbnail: failed to stat file %s: %v", fullPath, err)
			writeJSONError(w, "failed to access file", http.StatusInternalServerError)
		}
		return
	}
	if fileInfo.IsDir() {
		writeJSONError(w, "cannot generate thumbnail for directory", http.StatusBadRequest)
		return
	}

	thumb, err := h.thumbs.Generate(r.Context(), fullPath, flavor)
	switch {
	case err == nil:
	case errors.Is(err, thumbnail.ErrNoThumbnailer):
		logging.Debug("Thumbnail: %v", err)
		writeJSONError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logging.Debug("Thumbnail: request for %s abandoned: %v", fullPath, err)
		writeJSONError(w, "request cancelled", http.StatusServiceUnavailable)
		return
	default:
		logging.Error("Thumbnail: generation failed for %s: %v", fullPath, err)
		writeJSONError(w, "failed to generate thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(thumb); err != nil {
		logging.Debug("Thumbnail: write failed for %s: %v", fullPath, err)
	}
}

func isSubPath(parent, child string) bool {
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, strings.TrimSuffix(parent, string(filepath.Separator))+string(filepath.Separator))
}
