package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"thumbnailer/internal/filesystem"
)

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		missing    bool
		wantReason Reason
	}{
		{"valid 32 bytes", header(1, 0, make([]byte, 24)...), false, ""},
		{"missing file", nil, true, ReasonSourceUnavailable},
		{"empty file", []byte{}, false, ReasonSourceUnavailable},
		{"truncated file", header(1, 0, 1, 2), false, ReasonSourceUnavailable},
		{"unsupported major", header(2, 0, make([]byte, 12)...), false, ReasonFormatInvalid},
		{"unsupported minor", header(1, 3, make([]byte, 8)...), false, ReasonFormatInvalid},
	}

	for _, tt := range tests {
		for _, mmap := range []bool{true, false} {
			name := tt.name + "/heap"
			if mmap {
				name = tt.name + "/mmap"
			}
			t.Run(name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "thumbnailers.cache")
				if !tt.missing {
					if err := os.WriteFile(path, tt.data, 0o644); err != nil {
						t.Fatalf("WriteFile: %v", err)
					}
				}

				blob, err := loadFile(path, filesystem.DefaultRetryConfig(), mmap)
				if tt.wantReason == "" {
					if err != nil {
						t.Fatalf("loadFile() error = %v", err)
					}
					defer release(blob)
					if blob.Len() != len(tt.data) {
						t.Errorf("Len() = %d, want %d", blob.Len(), len(tt.data))
					}
					if blob.IsFallback() || blob.Backing() == BackingNone {
						t.Errorf("Backing() = %v, want mapped or heap", blob.Backing())
					}
					if !mmap && blob.Backing() != BackingHeap {
						t.Errorf("Backing() = %v with mmap disabled, want heap", blob.Backing())
					}
					return
				}

				var loadErr *LoadError
				if !errors.As(err, &loadErr) {
					t.Fatalf("loadFile() error = %v, want *LoadError", err)
				}
				if loadErr.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", loadErr.Reason, tt.wantReason)
				}
				if blob.Backing() != BackingNone || blob.Len() != 0 {
					t.Errorf("failed load returned blob %v/%d, want empty", blob.Backing(), blob.Len())
				}
			})
		}
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{Path: "/c", Reason: ReasonFormatInvalid, Err: ErrVersionMismatch}
	if got, want := err.Error(), "load /c (format-invalid): unsupported cache version"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrVersionMismatch) {
		t.Error("errors.Is(LoadError, ErrVersionMismatch) = false")
	}
}

func TestLoadFileDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := loadFile(dir, filesystem.DefaultRetryConfig(), false)
	if err == nil {
		t.Fatal("loadFile(directory) error = nil, want error")
	}
}
