package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/repository"
)

var (
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrDuplicateRestoreConflict = errors.New("a task with this id already exists in the project")
	ErrNothingToRestore         = errors.New("notification carries no task snapshot")
)

// NotificationService serves per-user notification feeds and the
// restore-from-notification operation.
type NotificationService struct {
	store repository.Store
	log   *logrus.Logger
	now   func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store repository.Store, log *logrus.Logger) *NotificationService {
	return &NotificationService{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// SetClock overrides the service clock. Tests use it to pin timestamps.
func (s *NotificationService) SetClock(now func() time.Time) {
	s.now = now
}

// ListForUser returns the user's feed, newest first: notifications
// addressed to them directly plus broadcasts for projects they belong to.
func (s *NotificationService) ListForUser(userID string) ([]models.Notification, error) {
	notifications, err := s.store.Notifications.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	memberProjects, err := s.memberProjectIDs(userID)
	if err != nil {
		return nil, err
	}

	feed := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		switch {
		case n.ToUserID != nil && *n.ToUserID == userID:
			feed = append(feed, n)
		case n.ToUserID == nil && n.ProjectID != nil && memberProjects[*n.ProjectID]:
			feed = append(feed, n)
		}
	}
	return feed, nil
}

// UnreadCount returns how many notifications in the user's feed are unread.
func (s *NotificationService) UnreadCount(userID string) (int, error) {
	feed, err := s.ListForUser(userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range feed {
		if n.Status == models.NotificationUnread {
			count++
		}
	}
	return count, nil
}

// MarkRead transitions a notification to read.
func (s *NotificationService) MarkRead(id string) (*models.Notification, error) {
	return s.setStatus(id, models.NotificationRead)
}

// Dismiss transitions a notification to dismissed.
func (s *NotificationService) Dismiss(id string) (*models.Notification, error) {
	return s.setStatus(id, models.NotificationDismissed)
}

// RestoreTask rebuilds a deleted task from the snapshot a notification
// carries and inserts it back into the live project. The undo deadline in
// the notification's meta is advisory and not checked here.
func (s *NotificationService) RestoreTask(notificationID string) (*models.Task, error) {
	notification, err := s.loadNotification(notificationID)
	if err != nil {
		return nil, err
	}
	if notification.TaskSnapshot == nil || notification.ProjectID == nil {
		return nil, ErrNothingToRestore
	}

	project, err := s.store.Projects.FindByID(*notification.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	snapshot := notification.TaskSnapshot
	if project.FindTask(snapshot.ID) != nil {
		return nil, ErrDuplicateRestoreConflict
	}

	now := s.now()
	restored := *snapshot
	restored.ProjectID = project.ID
	restored.DeleteRequest = nil
	restored.UpdatedAt = now
	restored.RestoredAt = &now

	project.Tasks = append(project.Tasks, restored)
	project.UpdatedAt = now
	if err := s.store.Projects.Replace(project); err != nil {
		return nil, fmt.Errorf("failed to persist project: %w", err)
	}

	// Marking the source notification read is best effort; the restore
	// itself already succeeded.
	notification.Status = models.NotificationRead
	if err := s.store.Notifications.Replace(notification); err != nil {
		s.log.Warnf("failed to mark notification %s read after restore: %v", notification.ID, err)
	}

	return project.FindTask(restored.ID), nil
}

func (s *NotificationService) setStatus(id string, status models.NotificationStatus) (*models.Notification, error) {
	notification, err := s.loadNotification(id)
	if err != nil {
		return nil, err
	}
	notification.Status = status
	if err := s.store.Notifications.Replace(notification); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}
	return notification, nil
}

func (s *NotificationService) loadNotification(id string) (*models.Notification, error) {
	notification, err := s.store.Notifications.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	return notification, nil
}

// memberProjectIDs returns the set of project ids the user participates in.
func (s *NotificationService) memberProjectIDs(userID string) (map[string]bool, error) {
	projects, err := s.store.Projects.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	ids := make(map[string]bool, len(projects))
	for i := range projects {
		if projects[i].HasMember(userID) {
			ids[projects[i].ID] = true
		}
	}
	return ids, nil
}
