package models

import "time"

type NotificationStatus string

const (
	NotificationUnread    NotificationStatus = "unread"
	NotificationRead      NotificationStatus = "read"
	NotificationDismissed NotificationStatus = "dismissed"
)

// Notification type tags produced by the fan-out engine. Type is an open
// string; these are the values the engine emits today.
const (
	TypeTaskDeleteRequest       = "task_delete_request"
	TypeTaskDeleteActorApproved = "task_delete_actor_approved"
	TypeTaskDeleteActorRejected = "task_delete_actor_rejected"
	TypeTaskDeleteApproved      = "task_delete_approved"
	TypeTaskDeleteDenied        = "task_delete_denied"
	TypeTaskDeletedTeam         = "task_deleted_team"
	TypeTaskDeleteRejected      = "task_delete_rejected"
	TypeTaskAddedOwn            = "task_added_own"
	TypeTaskAddedTeam           = "task_added_team"
	TypeUserLogin               = "user_login"
	TypeUserLogout              = "user_logout"
)

// Recipient role tags recorded in Meta.Kinds.
const (
	KindActor     = "actor"
	KindRequester = "requester"
	KindTeam      = "team"
)

// NotificationMeta carries per-notification annotations. UndoUntil, when
// set, is always later than the notification's CreatedAt.
type NotificationMeta struct {
	Phase     string     `json:"phase,omitempty"`
	Kinds     []string   `json:"kinds,omitempty"`
	Deleted   *bool      `json:"deleted,omitempty"`
	UndoUntil *time.Time `json:"undoUntil,omitempty"`
	Requires  string     `json:"requires,omitempty"`
	Source    string     `json:"source,omitempty"`
	Event     string     `json:"event,omitempty"`
}

// Notification is one per-recipient record produced by the fan-out engine.
// A nil ToUserID means a project-wide broadcast, in which case ProjectID is
// always set. TaskSnapshot is immutable once written; restore reads it back.
type Notification struct {
	ID           string             `gorm:"primarykey;type:varchar(64)" json:"id"`
	Type         string             `gorm:"type:varchar(64);index" json:"type"`
	Title        string             `gorm:"type:varchar(255)" json:"title"`
	Message      string             `gorm:"type:text" json:"message"`
	FromUserID   *string            `gorm:"type:varchar(64)" json:"fromUserId"`
	ToUserID     *string            `gorm:"type:varchar(64);index" json:"toUserId"`
	ProjectID    *string            `gorm:"type:varchar(64);index" json:"projectId"`
	TaskID       *string            `gorm:"type:varchar(64)" json:"taskId"`
	TaskSnapshot *Task              `gorm:"serializer:json" json:"taskSnapshot,omitempty"`
	Status       NotificationStatus `gorm:"type:varchar(20);not null;default:'unread'" json:"status"`
	Meta         NotificationMeta   `gorm:"serializer:json" json:"meta"`
	GroupID      string             `gorm:"type:varchar(128)" json:"groupId,omitempty"`
	CreatedAt    time.Time          `gorm:"index" json:"createdAt"`
}
