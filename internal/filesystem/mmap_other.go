//go:build !unix

package filesystem

import "os"

// Map is not available on this platform; callers fall back to ReadFull.
func Map(_ *os.File, _ int64) ([]byte, error) {
	return nil, ErrMapUnsupported
}

// Unmap is a no-op on this platform.
func Unmap(_ []byte) error {
	return nil
}
