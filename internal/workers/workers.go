package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the number of workers for a task with the given CPU
// multiplier, capped at limit (0 means no cap). It respects container
// CPU limits via GOMAXPROCS and can be overridden with THUMBNAIL_WORKERS.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("THUMBNAIL_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForMixed returns worker count for mixed tasks (1.5 per CPU) such as
// thumbnail generation: read a file, scale it, encode the result.
func ForMixed(limit int) int {
	return Count(1.5, limit)
}
