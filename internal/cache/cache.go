package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"thumbnailer/internal/filesystem"
	"thumbnailer/internal/logging"
)

// DefaultRegenerateInterval is how often the helper runs absent any event.
const DefaultRegenerateInterval = 300 * time.Second

var (
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("cache closed")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("cache already started")
)

// Config configures a Cache.
type Config struct {
	// Path is the on-disk cache file.
	Path string
	// HelperPath is the executable that rebuilds Path.
	HelperPath string
	// RegenerateInterval defaults to DefaultRegenerateInterval.
	RegenerateInterval time.Duration
	// DisableMmap forces heap copies.
	DisableMmap bool
	// Retry configures NFS retries for open and stat.
	Retry filesystem.RetryConfig
}

// Option customizes a Cache.
type Option func(*Cache)

// WithSpawner replaces the process spawner.
func WithSpawner(s Spawner) Option {
	return func(c *Cache) { c.spawner = s }
}

// WithWatcher replaces the file watcher.
func WithWatcher(w Watcher) Option {
	return func(c *Cache) { c.watcher = w }
}

// WithObserver installs an instrumentation observer.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// WithTicker replaces the periodic ticker factory.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(c *Cache) { c.newTicker = newTicker }
}

// job is an in-flight regeneration.
type job struct {
	id      uint64
	proc    Process
	started time.Time
}

// Info is a consistent snapshot of cache state.
type Info struct {
	Path         string    `json:"path"`
	Backing      string    `json:"backing"`
	Length       int       `json:"length"`
	Major        uint32    `json:"major"`
	Minor        uint32    `json:"minor"`
	Generation   uint64    `json:"generation"`
	LoadedAt     time.Time `json:"loadedAt"`
	Regenerating bool      `json:"regenerating"`
	LastError    string    `json:"lastError,omitempty"`
}

// Cache owns the loaded thumbnailer cache blob and keeps it in sync with
// the file on disk. All state is guarded by mu.
type Cache struct {
	cfg       Config
	spawner   Spawner
	watcher   Watcher
	observer  Observer
	newTicker func(time.Duration) Ticker

	mu         sync.Mutex
	blob       Blob
	generation uint64
	loadedAt   time.Time
	lastErr    error
	job        *job
	jobSeq     uint64
	started    bool
	closed     bool

	stop      chan struct{}
	stopWatch func() error
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates an unloaded cache. Call Start to load it and begin watching.
func New(cfg Config, opts ...Option) *Cache {
	if cfg.RegenerateInterval <= 0 {
		cfg.RegenerateInterval = DefaultRegenerateInterval
	}
	c := &Cache{
		cfg:       cfg,
		spawner:   ExecSpawner{Env: []string{"CACHE_FILE=" + cfg.Path}},
		watcher:   FSWatcher{},
		observer:  nopObserver{},
		newTicker: newTimeTicker,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the cache, then starts the periodic timer and the file
// watch. A watch that cannot be established is logged; the timer still
// bounds staleness.
func (c *Cache) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.loadLocked()
	c.mu.Unlock()

	events, stopWatch, err := c.watcher.Watch(c.cfg.Path)
	if err != nil {
		logging.Warn("cache: file watch unavailable, relying on periodic regeneration: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		if stopWatch != nil {
			_ = stopWatch()
		}
		return ErrClosed
	}
	if stopWatch != nil {
		stop := stopOnce(stopWatch)
		c.stopWatch = stop
		c.wg.Add(1)
		go c.pumpWatch(ctx, events, stop)
	}

	ticker := c.newTicker(c.cfg.RegenerateInterval)
	c.wg.Add(1)
	go c.pumpTicks(ctx, ticker)

	logging.Debug("cache: started for %s (regenerate every %v)", c.cfg.Path, c.cfg.RegenerateInterval)
	return nil
}

// stopOnce makes stop safe to call from both the pump and Close.
func stopOnce(stop func() error) func() error {
	var once sync.Once
	var err error
	return func() error {
		once.Do(func() { err = stop() })
		return err
	}
}

// pumpWatch forwards watcher events. When ctx ends it releases the watch
// itself, since Close may never be called.
func (c *Cache) pumpWatch(ctx context.Context, events <-chan Event, stopWatch func() error) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			if err := stopWatch(); err != nil {
				logging.Debug("cache: stopping file watch: %v", err)
			}
			return
		case <-c.stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.HandleEvent(ev)
		}
	}
}

func (c *Cache) pumpTicks(ctx context.Context, ticker Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C():
			c.HandleEvent(Event{Kind: EventRegenerateTick})
		}
	}
}

// HandleEvent is the single entry point for watcher, timer and helper
// events. It is safe for concurrent use; events after Close are ignored.
func (c *Cache) HandleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.dispatchLocked(ev)
}

func (c *Cache) dispatchLocked(ev Event) {
	c.observer.ObserveEvent(ev.Kind)
	switch ev.Kind {
	case EventDeleted, EventRegenerateTick:
		c.regenerateLocked()
	case EventChanged:
		c.reloadLocked()
	case EventHelperExited:
		c.completeLocked(ev)
	default:
		logging.Warn("cache: ignoring unknown event %v", ev.Kind)
	}
}

// Load loads the cache file, replacing any loaded blob. It never fails:
// on any error the fallback is installed and regeneration is requested.
func (c *Cache) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
}

// Unload releases the loaded blob. Calling it when nothing is loaded is a
// no-op.
func (c *Cache) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unloadLocked()
}

// Reload unloads and loads in one critical section.
func (c *Cache) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloadLocked()
}

// Regenerate starts the update helper unless one is already running.
func (c *Cache) Regenerate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regenerateLocked()
}

func (c *Cache) loadLocked() {
	c.unloadLocked()

	start := time.Now()
	blob, err := loadFile(c.cfg.Path, c.cfg.Retry, !c.cfg.DisableMmap)
	if err != nil {
		logging.Warn("cache: using fallback: %v", err)
		blob = FallbackBlob()
	} else {
		logging.Debug("cache: loaded %s (%d bytes, %s)", c.cfg.Path, blob.Len(), blob.Backing())
	}

	c.blob = blob
	c.generation++
	c.loadedAt = time.Now()
	c.lastErr = err
	c.observer.ObserveLoad(blob.Backing(), blob.Len(), time.Since(start), err)

	if blob.IsFallback() {
		c.regenerateLocked()
	}
}

func (c *Cache) unloadLocked() {
	if c.blob.backing == BackingNone {
		return
	}
	release(c.blob)
	c.blob = Blob{}
}

func (c *Cache) reloadLocked() {
	c.observer.ObserveReload()
	c.loadLocked()
}

func (c *Cache) regenerateLocked() {
	if c.job != nil {
		logging.Debug("cache: regeneration already running, request dropped")
		c.observer.ObserveRegeneration(RegenerationSkipped)
		return
	}

	proc, err := c.spawner.Spawn(c.cfg.HelperPath)
	if err != nil {
		logging.Warn("cache: failed to spawn update helper: %v", err)
		c.observer.ObserveRegeneration(RegenerationFailed)
		return
	}
	if err := proc.Lower(); err != nil {
		logging.Debug("cache: could not lower helper priority: %v", err)
	}

	c.jobSeq++
	j := &job{id: c.jobSeq, proc: proc, started: time.Now()}
	c.job = j
	c.observer.ObserveRegeneration(RegenerationSpawned)
	logging.Debug("cache: regeneration job %d started", j.id)

	go func() {
		status := j.proc.Wait()
		c.HandleEvent(Event{Kind: EventHelperExited, Status: status, job: j.id})
	}()
}

func (c *Cache) completeLocked(ev Event) {
	j := c.job
	if j == nil || (ev.job != 0 && ev.job != j.id) {
		logging.Debug("cache: ignoring exit of stale regeneration job %d", ev.job)
		return
	}
	c.job = nil
	c.observer.ObserveHelperExit(ev.Status, time.Since(j.started))

	if !ev.Status.Updated() {
		logging.Debug("cache: regeneration job %d finished without update (%s)", j.id, ev.Status)
		return
	}
	logging.Info("cache: regeneration job %d rebuilt %s, reloading", j.id, c.cfg.Path)
	c.dispatchLocked(Event{Kind: EventChanged})
}

// View calls fn with the loaded blob while holding the cache lock. The
// blob's bytes must not be retained after fn returns.
func (c *Cache) View(fn func(Blob)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.blob)
}

// Snapshot returns the current cache state.
func (c *Cache) Snapshot() Info {
	c.mu.Lock()
	defer c.mu.Unlock()

	major, minor := c.blob.Version()
	info := Info{
		Path:         c.cfg.Path,
		Backing:      c.blob.Backing().String(),
		Length:       c.blob.Len(),
		Major:        major,
		Minor:        minor,
		Generation:   c.generation,
		LoadedAt:     c.loadedAt,
		Regenerating: c.job != nil,
	}
	if c.lastErr != nil {
		info.LastError = c.lastErr.Error()
	}
	return info
}

// Close stops the timer and the file watch, detaches any pending helper
// completion and unloads the blob. A running helper is not killed.
func (c *Cache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.job = nil
		stopWatch := c.stopWatch
		c.mu.Unlock()

		close(c.stop)
		if stopWatch != nil {
			err = stopWatch()
		}
		c.wg.Wait()

		c.mu.Lock()
		c.unloadLocked()
		c.mu.Unlock()
	})
	return err
}
