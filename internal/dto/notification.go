package dto

import (
	"github.com/taskboardhq/taskboard-api/internal/models"
)

// NotificationListResponse represents a user's notification feed
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

// RestoreTaskResponse is returned after a task was rebuilt from a
// notification's snapshot
type RestoreTaskResponse struct {
	Task *models.Task `json:"task"`
}
