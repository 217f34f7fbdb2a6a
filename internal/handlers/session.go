package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskboardhq/taskboard-api/internal/errors"
	"github.com/taskboardhq/taskboard-api/internal/middleware"
	"github.com/taskboardhq/taskboard-api/internal/services"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// StartSession announces that the caller's session began.
func (h *SessionHandler) StartSession(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	if err := h.sessionService.Start(identity); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session started"})
}

// EndSession announces that the caller's session ended.
func (h *SessionHandler) EndSession(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	if err := h.sessionService.End(identity); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}
