package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/thumbnail"
)

func thumbnailRequest(path, flavor string) *http.Request {
	q := url.Values{}
	if path != "" {
		q.Set("path", path)
	}
	if flavor != "" {
		q.Set("flavor", flavor)
	}
	return httptest.NewRequest(http.MethodGet, "/api/thumbnail?"+q.Encode(), http.NoBody)
}

func TestGetThumbnailValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(file, []byte("not really a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		root     string
		path     string
		flavor   string
		wantCode int
	}{
		{name: "missing path", wantCode: http.StatusBadRequest},
		{name: "relative path", path: "photo.jpg", wantCode: http.StatusBadRequest},
		{name: "unknown flavor", path: file, flavor: "huge", wantCode: http.StatusBadRequest},
		{name: "missing file", path: filepath.Join(dir, "gone.jpg"), wantCode: http.StatusNotFound},
		{name: "directory", path: dir, wantCode: http.StatusBadRequest},
		{name: "outside root", root: filepath.Join(dir, "sub"), path: file, wantCode: http.StatusBadRequest},
		{name: "traversal out of root", root: dir, path: dir + "/../" + filepath.Base(dir) + "x/photo.jpg", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumbs := &mockThumbnailer{data: []byte("png")}
			h := New(newMockCache(cache.BackingMapped), thumbs, tt.root)

			w := httptest.NewRecorder()
			h.GetThumbnail(w, thumbnailRequest(tt.path, tt.flavor))

			if w.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if thumbs.src != "" {
				t.Errorf("generator called for rejected request with %q", thumbs.src)
			}
		})
	}
}

func TestGetThumbnailGeneratorErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "clip.mkv")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"no thumbnailer", fmt.Errorf("%w video/x-matroska", thumbnail.ErrNoThumbnailer), http.StatusUnsupportedMediaType},
		{"decode failure", errors.New("decode: bad data"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(newMockCache(cache.BackingMapped), &mockThumbnailer{err: tt.err}, "")
			w := httptest.NewRecorder()
			h.GetThumbnail(w, thumbnailRequest(file, ""))
			if w.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestGetThumbnailPassesFlavor(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	thumbs := &mockThumbnailer{data: []byte("thumb-bytes")}
	h := New(newMockCache(cache.BackingMapped), thumbs, dir)

	w := httptest.NewRecorder()
	h.GetThumbnail(w, thumbnailRequest(file, "large"))

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", w.Code)
	}
	if thumbs.src != file || thumbs.flavor != thumbnail.FlavorLarge {
		t.Errorf("generator got (%q, %q)", thumbs.src, thumbs.flavor)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if w.Body.String() != "thumb-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestGetThumbnailRealGenerator(t *testing.T) {
	file := filepath.Join(t.TempDir(), "wide.png")
	img := imaging.New(400, 200, color.NRGBA{R: 200, A: 255})
	if err := imaging.Save(img, file); err != nil {
		t.Fatal(err)
	}

	h := New(newMockCache(cache.BackingMapped), thumbnail.NewGenerator(1), "")
	w := httptest.NewRecorder()
	h.GetThumbnail(w, thumbnailRequest(file, "normal"))

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if cfg.Width != 128 || cfg.Height != 64 {
		t.Errorf("thumbnail size = %dx%d, want 128x64", cfg.Width, cfg.Height)
	}
}

func TestIsSubPath(t *testing.T) {
	tests := []struct {
		parent, child string
		want          bool
	}{
		{"/srv/media", "/srv/media", true},
		{"/srv/media", "/srv/media/a.jpg", true},
		{"/srv/media/", "/srv/media/a.jpg", true},
		{"/srv/media", "/srv/media-other/a.jpg", false},
		{"/srv/media", "/srv/a.jpg", false},
	}
	for _, tt := range tests {
		if got := isSubPath(tt.parent, tt.child); got != tt.want {
			t.Errorf("isSubPath(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}
