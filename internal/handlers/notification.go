package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboardhq/taskboard-api/internal/dto"
	apierrors "github.com/taskboardhq/taskboard-api/internal/errors"
	"github.com/taskboardhq/taskboard-api/internal/middleware"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's feed, newest first, along with the
// unread count.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	feed, err := h.notificationService.ListForUser(identity.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	unread := 0
	for _, n := range feed {
		if n.Status == models.NotificationUnread {
			unread++
		}
	}
	c.JSON(http.StatusOK, dto.NotificationListResponse{
		Notifications: feed,
		Unread:        unread,
	})
}

// MarkRead transitions a notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notification, err := h.notificationService.MarkRead(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

// Dismiss transitions a notification to dismissed.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	notification, err := h.notificationService.Dismiss(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

// RestoreTask rebuilds a deleted task from the snapshot the notification
// carries.
func (h *NotificationHandler) RestoreTask(c *gin.Context) {
	task, err := h.notificationService.RestoreTask(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RestoreTaskResponse{Task: task})
}
