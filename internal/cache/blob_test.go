package cache

import (
	"errors"
	"testing"
)

func TestValidateHeader(t *testing.T) {
	padding := make([]byte, 8)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"version 1.0 minimum size", header(1, 0, padding...), nil},
		{"version 1.0 with table", header(1, 0, make([]byte, 100)...), nil},
		{"major 2", header(2, 0, padding...), ErrVersionMismatch},
		{"major 0", header(0, 0, padding...), ErrVersionMismatch},
		{"minor 1", header(1, 1, padding...), ErrVersionMismatch},
		{"little endian 1.0", append([]byte{1, 0, 0, 0, 0, 0, 0, 0}, padding...), ErrVersionMismatch},
		{"empty", nil, ErrTooSmall},
		{"header only, 8 bytes", header(1, 0), ErrTooSmall},
		{"15 bytes", header(1, 0, make([]byte, 7)...), ErrTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.data)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateHeader() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateHeader() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFallbackBlob(t *testing.T) {
	b := FallbackBlob()

	if b.Len() != HeaderSize {
		t.Errorf("Len() = %d, want %d", b.Len(), HeaderSize)
	}
	if !b.IsFallback() || b.Backing() != BackingFallback {
		t.Errorf("Backing() = %v, want fallback", b.Backing())
	}
	major, minor := b.Version()
	if major != 1 || minor != 0 {
		t.Errorf("Version() = %d.%d, want 1.0", major, minor)
	}
	if err := ValidateHeader(b.Bytes()); err != nil {
		t.Errorf("fallback does not validate: %v", err)
	}
	for i, v := range b.Bytes()[8:] {
		if v != 0 {
			t.Errorf("reserved byte %d = %#x, want 0", 8+i, v)
		}
	}

	// Releasing the fallback must leave it intact.
	release(b)
	release(b)
	if major, minor := FallbackBlob().Version(); major != 1 || minor != 0 {
		t.Errorf("fallback version after release = %d.%d", major, minor)
	}
}

func TestBlobVersionUnloaded(t *testing.T) {
	var b Blob
	if major, minor := b.Version(); major != 0 || minor != 0 {
		t.Errorf("Version() of empty blob = %d.%d, want 0.0", major, minor)
	}
	if b.Backing() != BackingNone {
		t.Errorf("Backing() = %v, want none", b.Backing())
	}
}

func TestBackingString(t *testing.T) {
	tests := []struct {
		b    Backing
		want string
	}{
		{BackingNone, "none"},
		{BackingMapped, "mapped"},
		{BackingHeap, "heap"},
		{BackingFallback, "fallback"},
		{Backing(9), "unknown(9)"},
	}
	for _, tt := range tests {
		if got := tt.b.String(); got != tt.want {
			t.Errorf("Backing(%d).String() = %q, want %q", int(tt.b), got, tt.want)
		}
	}
}
