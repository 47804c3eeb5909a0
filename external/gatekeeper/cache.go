package gatekeeper

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// ttlCache is a bounded cache with per-entry expiry. When full it evicts
// expired entries first, then the entry closest to expiring, so a hot
// verification burst never pushes out fresher results for staler ones.
type ttlCache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]ttlEntry[V]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func newTTLCache[V any](ttl time.Duration, maxEntries int) *ttlCache[V] {
	return &ttlCache[V]{
		entries:    make(map[string]ttlEntry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *ttlCache[V]) Get(key string) (V, bool) {
	var zero V
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !entry.expiresAt.After(now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return zero, false
	}

	return entry.value, true
}

func (c *ttlCache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.makeRoom(now)
		}
	}

	c.entries[key] = ttlEntry[V]{
		value:     value,
		expiresAt: now.Add(c.ttl),
	}
}

func (c *ttlCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// makeRoom drops every expired entry, and when that frees nothing, the
// entry with the nearest expiry.
func (c *ttlCache[V]) makeRoom(now time.Time) {
	for key, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, entry := range c.entries {
		if !found || entry.expiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.expiresAt
			found = true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}
