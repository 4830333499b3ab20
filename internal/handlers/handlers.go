package handlers

import (
	"context"
	"path/filepath"
	"time"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/thumbnail"
)

// CacheService is the part of *cache.Cache the handlers use.
type CacheService interface {
	Snapshot() cache.Info
	HandleEvent(cache.Event)
}

// Thumbnailer generates thumbnail bytes for a local file.
type Thumbnailer interface {
	Generate(ctx context.Context, src string, flavor thumbnail.Flavor) ([]byte, error)
}

type Handlers struct {
	cache     CacheService
	thumbs    Thumbnailer
	thumbRoot string
	startTime time.Time
}

// New returns handlers backed by c and thumbs. A non-empty thumbRoot
// restricts thumbnail sources to that directory tree.
func New(c CacheService, thumbs Thumbnailer, thumbRoot string) *Handlers {
	if thumbRoot != "" {
		if abs, err := filepath.Abs(thumbRoot); err == nil {
			thumbRoot = abs
		}
	}
	return &Handlers{
		cache:     c,
		thumbs:    thumbs,
		thumbRoot: thumbRoot,
		startTime: time.Now(),
	}
}
