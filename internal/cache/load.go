package cache

import (
	"errors"
	"fmt"

	"thumbnailer/internal/filesystem"
	"thumbnailer/internal/logging"
)

var (
	// ErrTooSmall means the cache file is shorter than HeaderSize.
	ErrTooSmall = errors.New("cache file too small")
	// ErrVersionMismatch means the header version is not the supported one.
	ErrVersionMismatch = errors.New("unsupported cache version")
)

// Reason classifies why a load fell back.
type Reason string

const (
	ReasonSourceUnavailable Reason = "source-unavailable"
	ReasonFormatInvalid     Reason = "format-invalid"
	ReasonReadFailure       Reason = "read-failure"
)

// LoadError describes a failed load. It is logged and observed, never
// returned to cache callers.
type LoadError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Path, e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadFile reads and validates the cache file at path. On success the blob
// is mapped or heap backed; on failure any partially acquired buffer has
// already been released and a *LoadError is returned.
func loadFile(path string, retry filesystem.RetryConfig, allowMmap bool) (Blob, error) {
	f, err := filesystem.OpenWithRetry(path, retry)
	if err != nil {
		return Blob{}, &LoadError{Path: path, Reason: ReasonSourceUnavailable, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Debug("cache: failed to close %s: %v", path, err)
		}
	}()

	info, err := filesystem.StatWithRetry(f, retry)
	if err != nil {
		return Blob{}, &LoadError{Path: path, Reason: ReasonSourceUnavailable, Err: err}
	}
	size := info.Size()
	if size < HeaderSize {
		return Blob{}, &LoadError{Path: path, Reason: ReasonSourceUnavailable, Err: fmt.Errorf("%w: %d bytes", ErrTooSmall, size)}
	}

	var blob Blob
	if allowMmap {
		data, mapErr := filesystem.Map(f, size)
		if mapErr == nil {
			blob = Blob{data: data, backing: BackingMapped}
		} else {
			logging.Debug("cache: mmap of %s unavailable, reading into memory: %v", path, mapErr)
		}
	}
	if blob.backing == BackingNone {
		data, readErr := filesystem.ReadFull(f, size)
		if readErr != nil {
			return Blob{}, &LoadError{Path: path, Reason: ReasonReadFailure, Err: readErr}
		}
		blob = Blob{data: data, backing: BackingHeap}
	}

	if err := ValidateHeader(blob.data); err != nil {
		release(blob)
		return Blob{}, &LoadError{Path: path, Reason: ReasonFormatInvalid, Err: err}
	}
	return blob, nil
}

// release frees b according to its backing. Heap blobs are left to the
// garbage collector once the last reference is dropped; the fallback is
// never freed.
func release(b Blob) {
	switch b.backing {
	case BackingMapped:
		if err := filesystem.Unmap(b.data); err != nil {
			logging.Warn("cache: %v", err)
		}
	case BackingHeap, BackingFallback, BackingNone:
	}
}
