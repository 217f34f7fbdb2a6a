// Package handlers wires the HTTP surface to the services. Handlers bind
// input, enforce the role policy, call one service method and translate its
// sentinel errors into API responses.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskboardhq/taskboard-api/internal/errors"
	"github.com/taskboardhq/taskboard-api/internal/services"
)

// respondServiceError maps service sentinel errors onto API responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, "Notification not found")
	case errors.Is(err, services.ErrDuplicateRestoreConflict):
		apierrors.Conflict(c, "A task with this id already exists in the project")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDueBeforeStart),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrNothingToRestore):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
