package repository

import (
	"errors"

	"github.com/taskboardhq/taskboard-api/internal/models"
)

// ErrNotFound is returned by every implementation when a document is
// absent, so services do not depend on backend-specific errors.
var ErrNotFound = errors.New("document not found")

// ProjectRepository is the document-level access contract for projects.
// Replace persists the whole document; there is no partial update, so the
// last writer wins when two callers race.
type ProjectRepository interface {
	// List returns every project document, tasks embedded.
	List() ([]models.Project, error)

	// FindByID returns one project document or ErrNotFound.
	FindByID(id string) (*models.Project, error)

	// Create stores a new project document.
	Create(p *models.Project) error

	// Replace overwrites the stored document with p.
	Replace(p *models.Project) error

	// Delete removes the document permanently.
	Delete(id string) error
}

// NotificationRepository is the document-level access contract for
// notifications.
type NotificationRepository interface {
	// List returns all notifications, newest first.
	List() ([]models.Notification, error)

	// FindByID returns one notification or ErrNotFound.
	FindByID(id string) (*models.Notification, error)

	// Create stores a new notification.
	Create(n *models.Notification) error

	// Replace overwrites the stored notification with n.
	Replace(n *models.Notification) error

	// Delete removes the notification permanently.
	Delete(id string) error

	// ListRecentByRecipientAndType returns notifications addressed to
	// toUserID with the given type, newest first. It backs the engine's
	// store-level duplicate check.
	ListRecentByRecipientAndType(toUserID *string, notificationType string) ([]models.Notification, error)
}

// UserRepository is the document-level access contract for users.
type UserRepository interface {
	// List returns every user.
	List() ([]models.User, error)

	// FindByID returns one user or ErrNotFound.
	FindByID(id string) (*models.User, error)

	// Create stores a new user.
	Create(u *models.User) error

	// Replace overwrites the stored user with u.
	Replace(u *models.User) error
}

// Store bundles the three collections the core operates on.
type Store struct {
	Projects      ProjectRepository
	Notifications NotificationRepository
	Users         UserRepository
}
