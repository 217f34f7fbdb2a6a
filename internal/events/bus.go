package events

import (
	"sync"
)

// Bus is a buffered in-process event queue. Workflow operations publish
// without blocking on delivery; the fan-out engine consumes from Events.
// Publishing to a full queue drops the event rather than stalling the
// workflow call: notification delivery is best-effort.
type Bus struct {
	ch      chan Event
	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewBus creates a bus with the given queue size.
func NewBus(size int) *Bus {
	return &Bus{ch: make(chan Event, size)}
}

// Publish enqueues an event. It reports false when the event was dropped
// because the queue was full or the bus closed.
func (b *Bus) Publish(ev Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	select {
	case b.ch <- ev:
		return true
	default:
		b.dropped++
		return false
	}
}

// Events returns the consumer channel.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Dropped returns how many events were discarded due to backpressure.
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close stops the bus. Pending events remain readable until drained.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
