package memory

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"thumbnailer/internal/logging"
	"thumbnailer/internal/metrics"
)

// GuardConfig holds the thresholds of a Guard.
type GuardConfig struct {
	// Limit is the reference size in bytes; 0 uses GOMEMLIMIT.
	Limit int64
	// Pause is the usage ratio at which new work is held back.
	Pause float64
	// Resume is the usage ratio below which held work is released.
	Resume float64
	// Interval is the sampling period.
	Interval time.Duration
}

// DefaultGuardConfig returns the default thresholds.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Pause:    0.85,
		Resume:   0.7,
		Interval: 5 * time.Second,
	}
}

// Guard holds back new thumbnail work while heap usage is above its pause
// threshold. A Guard without a limit never blocks.
type Guard struct {
	cfg    GuardConfig
	limit  int64
	sample func() uint64

	mu      sync.Mutex
	usage   float64
	paused  bool
	resumed chan struct{}
}

// NewGuard creates a Guard. Call Start to begin sampling.
func NewGuard(cfg GuardConfig) *Guard {
	limit := cfg.Limit
	if limit == 0 {
		if l := debug.SetMemoryLimit(-1); l > 0 && l < 1<<62 {
			limit = l
		}
	}
	if limit == 0 {
		logging.Debug("Memory guard: no memory limit configured, backpressure disabled")
	}
	return &Guard{
		cfg:     cfg,
		limit:   limit,
		sample:  heapAlloc,
		resumed: make(chan struct{}),
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// Start samples memory usage until ctx is done.
func (g *Guard) Start(ctx context.Context) {
	if g.limit == 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(g.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.check()
			case <-ctx.Done():
				g.release()
				return
			}
		}
	}()
}

func (g *Guard) check() {
	usage := float64(g.sample()) / float64(g.limit)
	metrics.MemoryUsageRatio.Set(usage)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.usage = usage

	switch {
	case !g.paused && usage >= g.cfg.Pause:
		logging.Warn("Memory usage at %.1f%% of limit, holding back thumbnail work", usage*100)
		g.paused = true
		metrics.MemoryPaused.Set(1)
		go runtime.GC()
	case g.paused && usage < g.cfg.Resume:
		logging.Info("Memory usage at %.1f%% of limit, resuming thumbnail work", usage*100)
		g.resumeLocked()
	}
}

func (g *Guard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		g.resumeLocked()
	}
}

func (g *Guard) resumeLocked() {
	g.paused = false
	metrics.MemoryPaused.Set(0)
	close(g.resumed)
	g.resumed = make(chan struct{})
}

// Wait blocks while the guard is paused. It returns ctx.Err() if ctx ends
// first. A nil Guard never blocks.
func (g *Guard) Wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	if !g.paused {
		g.mu.Unlock()
		return nil
	}
	resumed := g.resumed
	g.mu.Unlock()

	select {
	case <-resumed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Paused reports whether new work is currently held back.
func (g *Guard) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Usage returns the last sampled usage ratio, 0 without a limit.
func (g *Guard) Usage() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}
