package cache

import (
	"encoding/binary"
	"fmt"
)

// Supported on-disk format.
const (
	SupportedMajor uint32 = 1
	SupportedMinor uint32 = 0

	// HeaderSize is the minimum valid cache file size: major, minor and two
	// reserved big-endian uint32 words.
	HeaderSize = 16
)

// Backing identifies what owns a blob's bytes and how they are released.
type Backing int

const (
	// BackingNone means no blob is loaded.
	BackingNone Backing = iota
	// BackingMapped is a read-only shared mapping of the cache file.
	BackingMapped
	// BackingHeap is a copy of the cache file read into memory.
	BackingHeap
	// BackingFallback is the static header-only blob.
	BackingFallback
)

func (b Backing) String() string {
	switch b {
	case BackingNone:
		return "none"
	case BackingMapped:
		return "mapped"
	case BackingHeap:
		return "heap"
	case BackingFallback:
		return "fallback"
	default:
		return fmt.Sprintf("unknown(%d)", int(b))
	}
}

// fallbackData encodes version 1.0 and two zero reserved words. It lives for
// the whole process and is never released.
var fallbackData = [HeaderSize]byte{
	0, 0, 0, 1,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
}

// Blob is a loaded cache image. Its bytes are only valid while the cache
// lock is held, that is inside a View callback, and must not be modified.
type Blob struct {
	data    []byte
	backing Backing
}

// FallbackBlob returns the static fallback blob.
func FallbackBlob() Blob {
	return Blob{data: fallbackData[:], backing: BackingFallback}
}

// Bytes returns the raw cache image.
func (b Blob) Bytes() []byte {
	return b.data
}

// Len returns the blob length in bytes.
func (b Blob) Len() int {
	return len(b.data)
}

// Backing returns the blob's storage kind.
func (b Blob) Backing() Backing {
	return b.backing
}

// IsFallback reports whether b is the static fallback blob.
func (b Blob) IsFallback() bool {
	return b.backing == BackingFallback
}

// Version returns the header version words. It returns zeros for an
// unloaded blob.
func (b Blob) Version() (major, minor uint32) {
	if len(b.data) < 8 {
		return 0, 0
	}
	return binary.BigEndian.Uint32(b.data[0:4]), binary.BigEndian.Uint32(b.data[4:8])
}

// ValidateHeader checks size and version of a candidate cache image. It
// returns an error wrapping ErrTooSmall or ErrVersionMismatch.
func ValidateHeader(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}
	major := binary.BigEndian.Uint32(data[0:4])
	minor := binary.BigEndian.Uint32(data[4:8])
	if major != SupportedMajor || minor != SupportedMinor {
		return fmt.Errorf("%w: %d.%d, want %d.%d", ErrVersionMismatch, major, minor, SupportedMajor, SupportedMinor)
	}
	return nil
}
