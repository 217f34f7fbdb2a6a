package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// DeleteRequest marks a task as pending deletion approval. A task holds at
// most one: a new request overwrites any prior pending one.
type DeleteRequest struct {
	UserID      string    `json:"userId"`
	RequestedAt time.Time `json:"requestedAt"`
	Snapshot    *Task     `json:"snapshot,omitempty"`
}

// Task lives embedded inside its project's document; ProjectID is the
// immutable back-reference kept for flattened views.
type Task struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"projectId"`
	Title         string         `json:"title"`
	Status        TaskStatus     `json:"status"`
	Priority      TaskPriority   `json:"priority,omitempty"`
	AssignedTo    *string        `json:"assignedTo"`
	StartAt       *time.Time     `json:"startAt,omitempty"`
	DueDate       *time.Time     `json:"dueDate,omitempty"`
	EndAt         *time.Time     `json:"endAt,omitempty"`
	DeleteRequest *DeleteRequest `json:"deleteRequest"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	RestoredAt    *time.Time     `json:"restoredAt,omitempty"`
}

// Snapshot returns a point-in-time copy of the task suitable for embedding
// in notifications and delete requests. The copy never aliases the embedded
// task, so later mutations of the project document cannot leak into it.
func (t *Task) Snapshot() *Task {
	if t == nil {
		return nil
	}
	copied := *t
	if t.DeleteRequest != nil {
		dr := *t.DeleteRequest
		dr.Snapshot = nil // snapshots do not nest
		copied.DeleteRequest = &dr
	}
	return &copied
}
