package dto

import (
	"time"

	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/projections"
)

// AddTaskRequest represents the body for adding a task to a project
type AddTaskRequest struct {
	Title      string              `json:"title" binding:"required"`
	Status     models.TaskStatus   `json:"status"`
	Priority   models.TaskPriority `json:"priority"`
	AssignedTo *string             `json:"assignedTo"`
	StartAt    *time.Time          `json:"startAt"`
	DueDate    *time.Time          `json:"dueDate"`
	EndAt      *time.Time          `json:"endAt"`
}

// ConfirmDeleteRequest represents an approver's decision on a pending
// delete request. TaskSnapshot is the caller's copy of the task, used when
// the live task is already gone.
type ConfirmDeleteRequest struct {
	Approve      *bool        `json:"approve" binding:"required"`
	TaskSnapshot *models.Task `json:"taskSnapshot"`
}

// RequestDeleteResponse is returned after a task was flagged for deletion
type RequestDeleteResponse struct {
	Project      *models.Project `json:"project"`
	TaskSnapshot *models.Task    `json:"taskSnapshot"`
}

// ConfirmDeleteResponse is returned after a delete request was resolved
type ConfirmDeleteResponse struct {
	Approved     bool            `json:"approved"`
	Deleted      bool            `json:"deleted"`
	Project      *models.Project `json:"project"`
	TaskSnapshot *models.Task    `json:"taskSnapshot"`
}

// TaskTimeDTO represents a task's time-window metadata in API responses
type TaskTimeDTO struct {
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	TimeLeft    string     `json:"timeLeft"`
	InWindow    bool       `json:"inWindow"`
	IsOverdue   bool       `json:"isOverdue"`
	IsDisabled  bool       `json:"isDisabled"`
	EvaluatedAt time.Time  `json:"evaluatedAt"`
}

// TaskWithTimeDTO pairs a task with its time metadata
type TaskWithTimeDTO struct {
	Task models.Task  `json:"task"`
	Time *TaskTimeDTO `json:"time,omitempty"`
}

// GroupedTasksResponse represents tasks bucketed by status, bucket order
// following first occurrence in the project's task list
type GroupedTasksResponse struct {
	Statuses []models.TaskStatus                 `json:"statuses"`
	Grouped  map[models.TaskStatus][]models.Task `json:"grouped"`
}

// ToTaskTimeDTO converts computed time metadata to its API shape
func ToTaskTimeDTO(meta *projections.TimeMeta, now time.Time) *TaskTimeDTO {
	if meta == nil {
		return nil
	}
	return &TaskTimeDTO{
		Start:       meta.Start,
		End:         meta.End,
		TimeLeft:    projections.FormatDuration(meta.TimeLeft),
		InWindow:    meta.InWindow,
		IsOverdue:   meta.IsOverdue,
		IsDisabled:  meta.IsDisabled,
		EvaluatedAt: now,
	}
}

// ToGroupedTasksResponse converts status groups to their API shape
func ToGroupedTasksResponse(groups projections.StatusGroups) GroupedTasksResponse {
	return GroupedTasksResponse{
		Statuses: groups.Statuses,
		Grouped:  groups.Grouped,
	}
}
