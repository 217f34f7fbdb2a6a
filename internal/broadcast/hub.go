// Package broadcast implements the advisory cross-session invalidation
// signal. Delivery is best-effort: subscribers that fall behind miss
// messages, and nothing is replayed. It only tells other sessions to
// refetch; it never serializes writes.
package broadcast

import (
	"sync"
)

// MessageNotificationsUpdated tells listening sessions to refetch their
// notification list.
const MessageNotificationsUpdated = "notifications:updated"

// Message is the payload delivered to subscribers.
type Message struct {
	Type string `json:"type"`
}

// Hub fans one message out to every subscriber.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Message]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Message]struct{})}
}

// Subscribe registers a new listener. The returned cancel func must be
// called to release the subscription.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, 8)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers msg to all current subscribers, skipping any whose
// buffer is full.
func (h *Hub) Publish(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
