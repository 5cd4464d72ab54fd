// Package cache keeps loaded report documents for the lifetime of the process.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/report-viewer/internal/types"
)

// Loader produces the value for a key on a cache miss.
type Loader[T any] func(ctx context.Context) (T, error)

// Map is an unbounded key to document cache. Entries are never evicted;
// Reset drops everything at once.
//
// Concurrent misses on the same key share a single load.
type Map[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	group singleflight.Group
}

// New creates an empty cache.
func New[T any]() *Map[T] {
	return &Map[T]{items: make(map[string]T)}
}

// Get returns the cached value for key.
func (m *Map[T]) Get(key string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// GetOrLoad returns the cached value for key, calling load only on a miss.
// The bool result reports whether the value came from the cache.
// Failed loads are not cached.
//
// A shared load is detached from the cancellation of the caller that started
// it; each caller stops waiting when its own ctx is done.
func (m *Map[T]) GetOrLoad(ctx context.Context, key string, load Loader[T]) (T, bool, error) {
	var zero T
	if v, ok := m.Get(key); ok {
		return v, true, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		// A load that finished between the miss above and this call already stored it.
		if v, ok := m.Get(key); ok {
			return v, nil
		}
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.items[key] = v
		m.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(T), false, nil
	}
}

// Len returns the number of cached entries.
func (m *Map[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Reset drops every cached entry.
func (m *Map[T]) Reset() {
	m.mu.Lock()
	m.items = make(map[string]T)
	m.mu.Unlock()
}

// EntryKey returns the cache key of a run index entry: its id, or its creation
// timestamp when the entry has no id.
func EntryKey(entry types.RunIndexEntry) string {
	if entry.ID != "" {
		return entry.ID
	}
	if entry.CreatedAt.IsZero() {
		return ""
	}
	return fmt.Sprintf("at-%s", entry.CreatedAt.UTC().Format(time.RFC3339Nano))
}
