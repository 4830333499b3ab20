package handlers

import (
	"context"
	"sync"
	"time"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/thumbnail"
)

// mockCache records delivered events and serves a fixed snapshot.
type mockCache struct {
	mu     sync.Mutex
	info   cache.Info
	events []cache.EventKind
}

func newMockCache(backing cache.Backing) *mockCache {
	return &mockCache{info: cache.Info{
		Path:     "/tmp/thumbnailers.cache",
		Backing:  backing.String(),
		Length:   16,
		Major:    1,
		LoadedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
}

func (m *mockCache) Snapshot() cache.Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}

func (m *mockCache) HandleEvent(ev cache.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev.Kind)
	if ev.Kind == cache.EventChanged {
		m.info.Generation++
	}
}

func (m *mockCache) Events() []cache.EventKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cache.EventKind(nil), m.events...)
}

type mockThumbnailer struct {
	data   []byte
	err    error
	src    string
	flavor thumbnail.Flavor
}

func (m *mockThumbnailer) Generate(_ context.Context, src string, flavor thumbnail.Flavor) ([]byte, error) {
	m.src = src
	m.flavor = flavor
	return m.data, m.err
}
