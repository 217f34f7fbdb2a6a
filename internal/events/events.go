// Package events carries the domain events emitted by workflow operations
// and consumed by the notification fan-out engine.
package events

import (
	"github.com/taskboardhq/taskboard-api/internal/models"
)

// Event is a completed domain mutation the fan-out engine reacts to.
type Event interface {
	Name() string
}

// RequestSubmitted is emitted after a delete request was persisted onto a
// task. Project is the post-mutation document.
type RequestSubmitted struct {
	Project     *models.Project
	TaskID      string
	RequesterID string
	Snapshot    *models.Task
}

func (RequestSubmitted) Name() string { return "request_submitted" }

// ConfirmationResolved is emitted after an approver decided a delete
// request. Snapshot is the pre-mutation copy of the task; RequesterID is
// recovered from the snapshot's delete request when present.
type ConfirmationResolved struct {
	Project      *models.Project
	TaskID       string
	ApproverID   string
	ApproverName string
	RequesterID  string
	Approved     bool
	Deleted      bool
	Snapshot     *models.Task
}

func (ConfirmationResolved) Name() string { return "confirmation_resolved" }

// TaskAdded is emitted after a new task was appended to a project.
type TaskAdded struct {
	Project   *models.Project
	Task      *models.Task
	CreatorID string
}

func (TaskAdded) Name() string { return "task_added" }

// SessionStarted is emitted when a caller announces the start of a session.
type SessionStarted struct {
	User models.Identity
}

func (SessionStarted) Name() string { return "session_started" }

// SessionEnded is emitted when a caller announces the end of a session.
type SessionEnded struct {
	User models.Identity
}

func (SessionEnded) Name() string { return "session_ended" }
