package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/taskboardhq/taskboard-api/internal/broadcast"
)

type StreamHandler struct {
	hub *broadcast.Hub
}

func NewStreamHandler(hub *broadcast.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Stream serves the invalidation broadcast as server-sent events. Clients
// treat each message as a hint to refetch; nothing is replayed for late
// joiners.
func (h *StreamHandler) Stream(c *gin.Context) {
	messages, cancel := h.hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
