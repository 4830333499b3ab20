package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"thumbnailer/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit given to the Go
// heap. The rest covers mapped cache pages and decoder scratch space.
const DefaultMemoryRatio = 0.85

// LimitResult describes how the soft memory limit was configured.
type LimitResult struct {
	Configured     bool
	Source         string // "GOMEMLIMIT", "MEMORY_LIMIT" or "none"
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// ConfigureLimit sets the Go soft memory limit from MEMORY_LIMIT and
// MEMORY_RATIO unless GOMEMLIMIT is already set. Call it early in main.
func ConfigureLimit() LimitResult {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		result := LimitResult{Source: "GOMEMLIMIT"}
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return result
	}

	raw := os.Getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, leaving the Go memory limit alone")
		return LimitResult{Source: "none"}
	}
	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("Invalid MEMORY_LIMIT %q, leaving the Go memory limit alone", raw)
		return LimitResult{Source: "none"}
	}

	ratio := DefaultMemoryRatio
	if s := os.Getenv("MEMORY_RATIO"); s != "" {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil && parsed > 0 && parsed <= 1 {
			ratio = parsed
		} else {
			logging.Warn("Invalid MEMORY_RATIO %q, using default %.2f", s, DefaultMemoryRatio)
		}
	}

	limit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(limit)
	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s)", FormatBytes(limit), ratio*100, FormatBytes(containerLimit))

	return LimitResult{
		Configured:     true,
		Source:         "MEMORY_LIMIT",
		ContainerLimit: containerLimit,
		GoMemLimit:     limit,
		Ratio:          ratio,
	}
}

// FormatBytes formats b with binary units.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
