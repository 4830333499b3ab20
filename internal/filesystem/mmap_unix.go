//go:build unix

package filesystem

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// Map maps the first size bytes of f read-only and shared. The mapping
// stays valid after f is closed and must be released with Unmap.
func Map(f *os.File, size int64) ([]byte, error) {
	if size <= 0 || size > math.MaxInt {
		return nil, fmt.Errorf("%w: size %d", ErrMapUnsupported, size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", f.Name(), err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Map.
func Unmap(data []byte) error {
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
