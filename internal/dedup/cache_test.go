package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeenSuppressesWithinWindow(t *testing.T) {
	cache := New(10 * time.Second)

	assert.False(t, cache.Seen("a"))
	assert.True(t, cache.Seen("a"))
	assert.False(t, cache.Seen("b"))
}

func TestSeenExpiresAfterWindow(t *testing.T) {
	cache := New(10 * time.Second)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.SetClock(func() time.Time { return now })

	assert.False(t, cache.Seen("a"))

	now = now.Add(5 * time.Second)
	assert.True(t, cache.Seen("a"))

	now = now.Add(11 * time.Second)
	assert.False(t, cache.Seen("a"))
}

func TestEviction(t *testing.T) {
	cache := New(10 * time.Second)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.SetClock(func() time.Time { return now })

	cache.Seen("a")
	cache.Seen("b")
	assert.Equal(t, 2, cache.Len())

	now = now.Add(time.Minute)
	cache.Seen("c")
	assert.Equal(t, 1, cache.Len())
}

func TestReset(t *testing.T) {
	cache := New(10 * time.Second)

	cache.Seen("a")
	cache.Reset()

	assert.Equal(t, 0, cache.Len())
	assert.False(t, cache.Seen("a"))
}
