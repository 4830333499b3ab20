package cache

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"thumbnailer/internal/logging"
)

// Watcher delivers change notifications for a single file.
type Watcher interface {
	// Watch starts watching path. Events are sent on the returned channel
	// until stop is called; the channel is closed afterwards.
	Watch(path string) (events <-chan Event, stop func() error, err error)
}

// FSWatcher watches the cache file's parent directory with fsnotify so that
// deletion followed by an atomic rename into place is observed.
type FSWatcher struct{}

// Watch implements Watcher.
func (FSWatcher) Watch(path string) (<-chan Event, func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		_ = w.Close()
		return nil, nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	out := make(chan Event, 16)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(out)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				kind, ok := classifyOp(ev.Op)
				if !ok {
					continue
				}
				logging.Debug("cache: watcher %s on %s", ev.Op, ev.Name)
				select {
				case out <- Event{Kind: kind}:
				case <-done:
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.Warn("cache: watcher error: %v", err)
			}
		}
	}()

	var once sync.Once
	stop := func() error {
		var err error
		once.Do(func() {
			close(done)
			err = w.Close()
			wg.Wait()
		})
		return err
	}
	return out, stop, nil
}

// classifyOp maps an fsnotify operation to a cache event.
func classifyOp(op fsnotify.Op) (EventKind, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return EventDeleted, true
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write), op.Has(fsnotify.Chmod):
		return EventChanged, true
	default:
		return 0, false
	}
}
