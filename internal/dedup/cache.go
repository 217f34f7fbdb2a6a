// Package dedup provides the in-process suppression layer of the
// notification engine. It is best-effort by design: the map is neither
// shared across processes nor persisted, so restarts and concurrent
// replicas can still produce duplicates.
package dedup

import (
	"sync"
	"time"
)

// Cache remembers recently seen event keys for a fixed window.
type Cache struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
	now    func() time.Time
}

// New creates a cache with the given suppression window.
func New(window time.Duration) *Cache {
	return &Cache{
		window: window,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Seen reports whether key was observed within the window. When it was not,
// the key is recorded, so the first caller for a key always gets false.
func (c *Cache) Seen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictLocked(now)

	if last, ok := c.seen[key]; ok && now.Sub(last) <= c.window {
		return true
	}
	c.seen[key] = now
	return false
}

// Reset drops all recorded keys.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[string]time.Time)
}

// Len returns the number of live keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// SetClock replaces the time source. Tests use this to step through the
// window without sleeping.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache) evictLocked(now time.Time) {
	for key, last := range c.seen {
		if now.Sub(last) > c.window {
			delete(c.seen, key)
		}
	}
}
