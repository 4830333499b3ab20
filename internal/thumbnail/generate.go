package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"

	"thumbnailer/internal/logging"
	"thumbnailer/internal/mediatypes"
	"thumbnailer/internal/memory"
	"thumbnailer/internal/metrics"
	"thumbnailer/internal/workers"
)

// ErrNoThumbnailer is returned for MIME types without an in-process decoder.
var ErrNoThumbnailer = errors.New("no thumbnailer for type")

// Generator produces PNG thumbnails for built-in image types with bounded
// concurrency.
type Generator struct {
	sem   *semaphore.Weighted
	size  int
	guard *memory.Guard
}

// NewGenerator returns a Generator running at most concurrency jobs at
// once. Zero or less sizes the pool with workers.ForMixed.
func NewGenerator(concurrency int) *Generator {
	if concurrency <= 0 {
		concurrency = workers.ForMixed(8)
	}
	logging.Debug("Thumbnail generator: %d workers", concurrency)
	return &Generator{sem: semaphore.NewWeighted(int64(concurrency)), size: concurrency}
}

// WithGuard makes Generate wait on guard before decoding. It returns g.
func (g *Generator) WithGuard(guard *memory.Guard) *Generator {
	g.guard = guard
	return g
}

// Workers returns the pool size.
func (g *Generator) Workers() int {
	return g.size
}

// Generate decodes src, scales it to flavor and returns PNG bytes.
func (g *Generator) Generate(ctx context.Context, src string, flavor Flavor) ([]byte, error) {
	mime := mediatypes.MimeTypeFor(src)
	if !mediatypes.IsBuiltinImage(mime) {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(flavor), "error_unsupported").Inc()
		return nil, fmt.Errorf("%w %s", ErrNoThumbnailer, mime)
	}

	if err := g.guard.Wait(ctx); err != nil {
		return nil, err
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer g.sem.Release(1)

	start := time.Now()
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(flavor), "error_decode").Inc()
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Scale(img, flavor)); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(flavor), "error").Inc()
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(string(flavor), "success").Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(string(flavor)).Observe(time.Since(start).Seconds())
	logging.Debug("Thumbnail generated: %s (%s, %d bytes)", src, flavor, buf.Len())
	return buf.Bytes(), nil
}
