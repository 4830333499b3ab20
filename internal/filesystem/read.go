package filesystem

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMapUnsupported is returned by Map when the file cannot be mapped
	// on this platform or at this size.
	ErrMapUnsupported = errors.New("memory mapping not supported")

	// ErrShortRead is returned by ReadFull when a read returns no data
	// before the requested size was reached.
	ErrShortRead = errors.New("short read")
)

// ReadFull reads exactly size bytes from r into a new heap buffer. Partial
// reads are retried; a read that makes no progress aborts the attempt and
// the partial buffer is discarded.
func ReadFull(r io.Reader, size int64) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}

	buf := make([]byte, size)
	var off int64
	for off < size {
		n, err := r.Read(buf[off:])
		if n <= 0 {
			if err == nil || errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, off, size)
			}
			return nil, fmt.Errorf("%w after %d of %d bytes: %w", ErrShortRead, off, size, err)
		}
		off += int64(n)
	}
	return buf, nil
}
