package repository

import (
	"errors"

	"github.com/taskboardhq/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of
// NotificationRepository.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// List returns all notifications, newest first.
func (r *GormNotificationRepository) List() ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindByID returns one notification or ErrNotFound.
func (r *GormNotificationRepository) FindByID(id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Create stores a new notification.
func (r *GormNotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// Replace overwrites the stored notification with n.
func (r *GormNotificationRepository) Replace(n *models.Notification) error {
	return r.db.Save(n).Error
}

// Delete removes the notification permanently.
func (r *GormNotificationRepository) Delete(id string) error {
	return r.db.Delete(&models.Notification{}, "id = ?", id).Error
}

// ListRecentByRecipientAndType returns notifications addressed to toUserID
// with the given type, newest first. The fine-grained match (project, task,
// message text, recency) happens in the engine, mirroring how the store is
// queried coarsely and filtered locally.
func (r *GormNotificationRepository) ListRecentByRecipientAndType(toUserID *string, notificationType string) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.Where("type = ?", notificationType)
	if toUserID == nil {
		query = query.Where("to_user_id IS NULL")
	} else {
		query = query.Where("to_user_id = ?", *toUserID)
	}
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
