package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return path
}

func TestParseFlavor(t *testing.T) {
	tests := []struct {
		in      string
		want    Flavor
		wantErr bool
	}{
		{"", FlavorNormal, false},
		{"normal", FlavorNormal, false},
		{"LARGE", FlavorLarge, false},
		{"huge", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFlavor(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFlavor(%q) = (%q, %v), want (%q, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestFlavorSize(t *testing.T) {
	if FlavorNormal.Size() != 128 {
		t.Errorf("normal size = %d, want 128", FlavorNormal.Size())
	}
	if FlavorLarge.Size() != 256 {
		t.Errorf("large size = %d, want 256", FlavorLarge.Size())
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		flavor Flavor
		wantW  int
		wantH  int
	}{
		{"landscape to normal", 400, 200, FlavorNormal, 128, 64},
		{"portrait to large", 300, 600, FlavorLarge, 128, 256},
		{"small image not upscaled", 50, 40, FlavorLarge, 50, 40},
		{"exact box", 128, 128, FlavorNormal, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := Scale(img, tt.flavor).Bounds()
			if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("Scale() = %dx%d, want %dx%d", got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	src := writePNG(t, 512, 256)
	g := NewGenerator(2)

	data, err := g.Generate(context.Background(), src, FlavorNormal)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("thumbnail = %dx%d, want 128x64", b.Dx(), b.Dy())
	}
}

func TestGenerate_Errors(t *testing.T) {
	g := NewGenerator(1)

	if _, err := g.Generate(context.Background(), "/videos/clip.mkv", FlavorNormal); !errors.Is(err, ErrNoThumbnailer) {
		t.Errorf("Generate(mkv) error = %v, want ErrNoThumbnailer", err)
	}

	corrupt := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(corrupt, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := g.Generate(context.Background(), corrupt, FlavorNormal); err == nil {
		t.Error("Generate(corrupt) error = nil, want decode error")
	}
}

func TestNewGenerator_Workers(t *testing.T) {
	if got := NewGenerator(3).Workers(); got != 3 {
		t.Errorf("Workers() = %d, want 3", got)
	}
	t.Setenv("THUMBNAIL_WORKERS", "2")
	if got := NewGenerator(0).Workers(); got != 2 {
		t.Errorf("Workers() with override = %d, want 2", got)
	}
}

// TestGenerate_BoundsConcurrency checks that a request runs while a slot is
// free and waits once the pool is full.
func TestGenerate_BoundsConcurrency(t *testing.T) {
	src := writePNG(t, 16, 16)
	g := NewGenerator(2)

	if err := g.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := g.Generate(context.Background(), src, FlavorNormal); err != nil {
		t.Fatalf("Generate() with a free slot error = %v", err)
	}

	if err := g.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Generate(ctx, src, FlavorNormal); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Generate() on a full pool error = %v, want DeadlineExceeded", err)
	}

	g.sem.Release(2)
	if !g.sem.TryAcquire(2) {
		t.Error("slots leaked: pool not fully free after release")
	}
}

func TestGenerate_RespectsContextWhenPoolFull(t *testing.T) {
	src := writePNG(t, 16, 16)
	g := NewGenerator(1)

	if err := g.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer g.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Generate(ctx, src, FlavorNormal); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Generate() error = %v, want DeadlineExceeded", err)
	}
}
