package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/taskboardhq/taskboard-api/internal/broadcast"
	"github.com/taskboardhq/taskboard-api/internal/constants"
	"github.com/taskboardhq/taskboard-api/internal/dedup"
	"github.com/taskboardhq/taskboard-api/internal/events"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/repository"
)

// Notifier is the fan-out engine. It consumes domain events from the bus,
// resolves and classifies recipients, and persists one notification per
// recipient. Failures here are logged and swallowed; they never fail the
// workflow call that produced the event.
type Notifier struct {
	store repository.Store
	bus   *events.Bus
	cache *dedup.Cache
	hub   *broadcast.Hub
	log   *logrus.Logger
	now   func() time.Time

	backoff time.Duration
}

// NewNotifier creates a fan-out engine over the given store and bus.
func NewNotifier(store repository.Store, bus *events.Bus, cache *dedup.Cache, hub *broadcast.Hub, log *logrus.Logger) *Notifier {
	return &Notifier{
		store:   store,
		bus:     bus,
		cache:   cache,
		hub:     hub,
		log:     log,
		now:     time.Now,
		backoff: constants.FanoutRetryBackoff,
	}
}

// SetClock overrides the engine clock. Tests use it to pin timestamps.
func (n *Notifier) SetClock(now func() time.Time) {
	n.now = now
}

// Run consumes the event bus until the context is cancelled or the bus is
// closed. It is meant to run in its own goroutine.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.bus.Events():
			if !ok {
				return
			}
			n.Dispatch(ev)
		}
	}
}

// outbound pairs a notification with its dedup key before delivery.
type outbound struct {
	key          string
	notification models.Notification
}

// Dispatch fans one event out to its recipients and waits for every
// per-recipient delivery to settle. Exported so tests can drive the engine
// synchronously.
func (n *Notifier) Dispatch(ev events.Event) {
	var batch []outbound
	switch e := ev.(type) {
	case events.RequestSubmitted:
		batch = n.buildRequestSubmitted(e)
	case events.ConfirmationResolved:
		batch = n.buildConfirmationResolved(e)
	case events.TaskAdded:
		batch = n.buildTaskAdded(e)
	case events.SessionStarted:
		batch = n.buildSession(e.User, true)
	case events.SessionEnded:
		batch = n.buildSession(e.User, false)
	default:
		n.log.Warnf("unknown event %q dropped", ev.Name())
		return
	}

	n.deliver(ev.Name(), batch)
}

func (n *Notifier) buildRequestSubmitted(ev events.RequestSubmitted) []outbound {
	project := ev.Project
	title := taskTitle(ev.Snapshot)

	var batch []outbound
	for _, recipient := range Approvers(project) {
		batch = append(batch, outbound{
			key: fmt.Sprintf("reqDel:%s:%s:%s", project.ID, ev.TaskID, recipient),
			notification: models.Notification{
				Type:         models.TypeTaskDeleteRequest,
				Title:        fmt.Sprintf("Delete requested: %s", title),
				Message:      fmt.Sprintf("User %s requested deletion for task %q in project %q", ev.RequesterID, title, project.Name),
				FromUserID:   ptr(ev.RequesterID),
				ToUserID:     ptr(recipient),
				ProjectID:    ptr(project.ID),
				TaskID:       ptr(ev.TaskID),
				TaskSnapshot: ev.Snapshot,
				Meta: models.NotificationMeta{
					Phase:    "request",
					Requires: "approver",
				},
			},
		})
	}
	return batch
}

func (n *Notifier) buildConfirmationResolved(ev events.ConfirmationResolved) []outbound {
	project := ev.Project
	title := taskTitle(ev.Snapshot)
	outcome := "rejected"
	if ev.Approved {
		outcome = "deleted"
	}
	groupID := fmt.Sprintf("project:%s:task:%s", project.ID, ev.TaskID)

	var undoUntil *time.Time
	if ev.Approved {
		u := n.now().Add(constants.UndoWindow)
		undoUntil = &u
	}

	var batch []outbound
	for _, recipient := range ClassifyConfirmRecipients(project, ev.ApproverID, ev.RequesterID) {
		notificationType, notificationTitle, message := confirmMessage(recipient, ev, title, project.Name)

		deleted := ev.Deleted
		batch = append(batch, outbound{
			key: fmt.Sprintf("confirmDel:%s:%s:%s:%s", project.ID, ev.TaskID, recipient.UserID, outcome),
			notification: models.Notification{
				Type:         notificationType,
				Title:        notificationTitle,
				Message:      message,
				FromUserID:   ptr(ev.ApproverID),
				ToUserID:     ptr(recipient.UserID),
				ProjectID:    ptr(project.ID),
				TaskID:       ptr(ev.TaskID),
				TaskSnapshot: ev.Snapshot,
				GroupID:      groupID,
				Meta: models.NotificationMeta{
					Phase:     "confirm",
					Kinds:     recipient.Kinds,
					Deleted:   &deleted,
					UndoUntil: undoUntil,
				},
			},
		})
	}
	return batch
}

// confirmMessage picks the message variant for one recipient by role
// priority: actor over requester over team. A requester who is also a
// member still gets the personal outcome, not the generic team copy.
func confirmMessage(recipient Recipient, ev events.ConfirmationResolved, taskTitle, projectName string) (notificationType, title, message string) {
	switch {
	case recipient.HasKind(models.KindActor):
		if ev.Approved {
			return models.TypeTaskDeleteActorApproved,
				"You approved deleting a task",
				fmt.Sprintf("You approved deleting task %q in project %q.", taskTitle, projectName)
		}
		return models.TypeTaskDeleteActorRejected,
			"You rejected a delete request",
			fmt.Sprintf("You rejected the delete request for task %q in project %q.", taskTitle, projectName)
	case recipient.HasKind(models.KindRequester):
		if ev.Approved {
			return models.TypeTaskDeleteApproved,
				"Delete request approved",
				fmt.Sprintf("Your delete request for %q was approved by user %s.", taskTitle, ev.ApproverName)
		}
		return models.TypeTaskDeleteDenied,
			"Delete request denied",
			fmt.Sprintf("Your delete request for %q was rejected by user %s.", taskTitle, ev.ApproverName)
	default:
		if ev.Approved {
			return models.TypeTaskDeletedTeam,
				"Task deleted",
				fmt.Sprintf("Task %q was deleted by user %s from project %q", taskTitle, ev.ApproverName, projectName)
		}
		return models.TypeTaskDeleteRejected,
			"Delete request rejected",
			fmt.Sprintf("Delete request for %q was rejected by user %s in project %q", taskTitle, ev.ApproverName, projectName)
	}
}

func (n *Notifier) buildTaskAdded(ev events.TaskAdded) []outbound {
	project := ev.Project
	creatorName := n.displayName(ev.CreatorID)
	title := taskTitle(ev.Task)

	var batch []outbound
	for _, recipient := range project.Members {
		notificationType := models.TypeTaskAddedTeam
		if recipient == ev.CreatorID {
			notificationType = models.TypeTaskAddedOwn
		}
		batch = append(batch, outbound{
			key: fmt.Sprintf("addTask:%s:%s:%s", project.ID, ev.Task.ID, recipient),
			notification: models.Notification{
				Type:         notificationType,
				Title:        fmt.Sprintf("New Task Added: %s by %s", title, creatorName),
				Message:      fmt.Sprintf("User %s added a new task %q to project %q", ev.CreatorID, title, project.Name),
				FromUserID:   ptr(ev.CreatorID),
				ToUserID:     ptr(recipient),
				ProjectID:    ptr(project.ID),
				TaskID:       ptr(ev.Task.ID),
				TaskSnapshot: ev.Task,
			},
		})
	}
	return batch
}

func (n *Notifier) buildSession(user models.Identity, started bool) []outbound {
	// Session keys carry a coarse timestamp bucket so a flapping session
	// within one bucket collapses to a single notice.
	bucket := n.now().Truncate(constants.SessionDedupeBucket).Unix()

	notificationType := models.TypeUserLogout
	title := "Logged out"
	message := fmt.Sprintf("User %s logged out.", user.ID)
	keyTag := "logout"
	if started {
		notificationType = models.TypeUserLogin
		title = fmt.Sprintf("Welcome back, %s!", user.Name)
		message = fmt.Sprintf("User %s logged in.", user.ID)
		keyTag = "login"
	}

	return []outbound{{
		key: fmt.Sprintf("session:%s:%s:%d", keyTag, user.ID, bucket),
		notification: models.Notification{
			Type:       notificationType,
			Title:      title,
			Message:    message,
			FromUserID: ptr(user.ID),
			ToUserID:   ptr(user.ID),
		},
	}}
}

// deliver persists the batch, one goroutine per recipient. Nothing here
// propagates an error: a recipient that cannot be written is logged and
// skipped so the rest of the batch still lands.
func (n *Notifier) deliver(eventName string, batch []outbound) {
	if len(batch) == 0 {
		return
	}

	done := make(chan bool, len(batch))
	dispatched := 0
	for _, item := range batch {
		if n.cache.Seen(item.key) {
			n.log.Debugf("suppressed duplicate %s notification (key %s)", eventName, item.key)
			continue
		}
		dispatched++
		go func(item outbound) {
			done <- n.persist(eventName, item)
		}(item)
	}

	created := false
	for i := 0; i < dispatched; i++ {
		if <-done {
			created = true
		}
	}
	if created {
		n.hub.Publish(broadcast.Message{Type: broadcast.MessageNotificationsUpdated})
	}
}

// persist writes one notification, first checking the store for a recent
// identical record. Reports whether a new record was created.
func (n *Notifier) persist(eventName string, item outbound) bool {
	if existing := n.findRecentDuplicate(&item.notification); existing != nil {
		n.log.Debugf("matched existing %s notification %s, skipping create", eventName, existing.ID)
		return false
	}

	item.notification.ID = uuid.NewString()
	item.notification.Status = models.NotificationUnread
	item.notification.CreatedAt = n.now()

	var err error
	for attempt := 1; attempt <= constants.FanoutRetries; attempt++ {
		if err = n.store.Notifications.Create(&item.notification); err == nil {
			return true
		}
		if attempt < constants.FanoutRetries {
			time.Sleep(n.backoff)
		}
	}

	n.log.WithFields(logrus.Fields{
		"event": eventName,
		"type":  item.notification.Type,
		"to":    derefOr(item.notification.ToUserID, ""),
	}).Errorf("failed to create notification after %d attempts: %v", constants.FanoutRetries, err)
	return false
}

// findRecentDuplicate is the store-level second dedup layer: a recent
// notification to the same recipient with the same type, project, task and
// exact message text counts as the same event. Best effort only; a store
// error just means the check is skipped.
func (n *Notifier) findRecentDuplicate(candidate *models.Notification) *models.Notification {
	recent, err := n.store.Notifications.ListRecentByRecipientAndType(candidate.ToUserID, candidate.Type)
	if err != nil {
		n.log.Warnf("duplicate check failed, creating anyway: %v", err)
		return nil
	}

	cutoff := n.now().Add(-constants.DedupeMatchWindow)
	for i := range recent {
		existing := &recent[i]
		if existing.CreatedAt.Before(cutoff) {
			continue
		}
		if !strPtrEqual(existing.ProjectID, candidate.ProjectID) {
			continue
		}
		if !strPtrEqual(existing.TaskID, candidate.TaskID) {
			continue
		}
		if existing.Message != candidate.Message {
			continue
		}
		return existing
	}
	return nil
}

func (n *Notifier) displayName(userID string) string {
	user, err := n.store.Users.FindByID(userID)
	if err != nil {
		return userID
	}
	return user.Name
}

func taskTitle(task *models.Task) string {
	if task == nil {
		return "unknown task"
	}
	return task.Title
}

func ptr(s string) *string {
	return &s
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
