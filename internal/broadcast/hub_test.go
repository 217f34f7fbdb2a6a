package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	first, cancelFirst := hub.Subscribe()
	second, cancelSecond := hub.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	hub.Publish(Message{Type: MessageNotificationsUpdated})

	assert.Equal(t, MessageNotificationsUpdated, (<-first).Type)
	assert.Equal(t, MessageNotificationsUpdated, (<-second).Type)
}

func TestCancelRemovesSubscription(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	assert.Equal(t, 1, hub.SubscriberCount())

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())

	// double cancel is safe
	cancel()
}

func TestPublishSkipsFullSubscribers(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// overflow the buffer; extra messages are dropped, not blocking
	for i := 0; i < 20; i++ {
		hub.Publish(Message{Type: MessageNotificationsUpdated})
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 8, count)
}
