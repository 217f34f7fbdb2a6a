package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/events"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/repository"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrDueBeforeStart  = errors.New("due date cannot be before the start date")
)

// WorkflowService drives the two-phase task deletion protocol and task
// creation against project documents. Every mutation replaces the whole
// document; the later of two racing writes wins.
type WorkflowService struct {
	projects repository.ProjectRepository
	bus      *events.Bus
	now      func() time.Time
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(projects repository.ProjectRepository, bus *events.Bus) *WorkflowService {
	return &WorkflowService{
		projects: projects,
		bus:      bus,
		now:      time.Now,
	}
}

// SetClock overrides the service clock. Tests use it to pin timestamps.
func (s *WorkflowService) SetClock(now func() time.Time) {
	s.now = now
}

// RequestDeleteResult is what requestDelete reports back to the caller.
type RequestDeleteResult struct {
	UpdatedProject *models.Project
	TaskSnapshot   *models.Task
}

// RequestDelete flags a task for deletion. The snapshot taken here rides
// along on the delete request and later on every notification, so the task
// can still be displayed and restored after it is gone. A second request on
// the same task overwrites the first.
func (s *WorkflowService) RequestDelete(projectID, taskID, requesterID string) (*RequestDeleteResult, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	task := project.FindTask(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	now := s.now()
	snapshot := task.Snapshot()
	task.DeleteRequest = &models.DeleteRequest{
		UserID:      requesterID,
		RequestedAt: now,
		Snapshot:    snapshot,
	}
	task.UpdatedAt = now
	project.UpdatedAt = now

	if err := s.projects.Replace(project); err != nil {
		return nil, fmt.Errorf("failed to persist project: %w", err)
	}

	s.bus.Publish(events.RequestSubmitted{
		Project:     project,
		TaskID:      taskID,
		RequesterID: requesterID,
		Snapshot:    snapshot,
	})

	return &RequestDeleteResult{UpdatedProject: project, TaskSnapshot: snapshot}, nil
}

// ConfirmDeleteInput carries an approver's decision on a pending delete
// request. FallbackSnapshot lets the caller supply the task copy it already
// holds, covering the race where the task vanished between request and
// confirmation.
type ConfirmDeleteInput struct {
	ProjectID        string
	TaskID           string
	ApproverID       string
	ApproverName     string
	Approve          bool
	FallbackSnapshot *models.Task
}

// ConfirmDeleteResult is what confirmDelete reports back to the caller.
type ConfirmDeleteResult struct {
	Approved       bool
	Deleted        bool
	UpdatedProject *models.Project
	TaskSnapshot   *models.Task
}

// ConfirmDelete resolves a pending delete request. Approval removes the
// task from the project document; rejection clears the delete request and
// keeps the task. The pre-mutation snapshot is captured first so the
// fan-out engine and restore always see the task as it was.
func (s *WorkflowService) ConfirmDelete(input ConfirmDeleteInput) (*ConfirmDeleteResult, error) {
	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := project.FindTask(input.TaskID)

	var snapshot *models.Task
	requesterID := ""
	deleted := false

	if task != nil {
		snapshot = task.Snapshot()
		if task.DeleteRequest != nil {
			requesterID = task.DeleteRequest.UserID
		}
		if input.Approve {
			project.RemoveTask(input.TaskID)
			deleted = true
		} else {
			task.DeleteRequest = nil
			task.UpdatedAt = now
		}
		project.UpdatedAt = now
		if err := s.projects.Replace(project); err != nil {
			return nil, fmt.Errorf("failed to persist project: %w", err)
		}
	} else {
		// Task already gone, typically removed by a racing writer. The
		// caller-supplied snapshot lets the decision still be recorded
		// and fanned out.
		if input.FallbackSnapshot == nil {
			return nil, ErrTaskNotFound
		}
		snapshot = input.FallbackSnapshot.Snapshot()
		if input.FallbackSnapshot.DeleteRequest != nil {
			requesterID = input.FallbackSnapshot.DeleteRequest.UserID
		}
		deleted = input.Approve
	}

	s.bus.Publish(events.ConfirmationResolved{
		Project:      project,
		TaskID:       input.TaskID,
		ApproverID:   input.ApproverID,
		ApproverName: input.ApproverName,
		RequesterID:  requesterID,
		Approved:     input.Approve,
		Deleted:      deleted,
		Snapshot:     snapshot,
	})

	return &ConfirmDeleteResult{
		Approved:       input.Approve,
		Deleted:        deleted,
		UpdatedProject: project,
		TaskSnapshot:   snapshot,
	}, nil
}

// AddTaskInput represents input for adding a task to a project.
type AddTaskInput struct {
	ProjectID  string
	CreatorID  string
	Title      string
	Status     models.TaskStatus
	Priority   models.TaskPriority
	AssignedTo *string
	StartAt    *time.Time
	DueDate    *time.Time
	EndAt      *time.Time
}

// AddTask appends a new task to the project document.
func (s *WorkflowService) AddTask(input AddTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.StartAt != nil && input.DueDate != nil && input.DueDate.Before(*input.StartAt) {
		return nil, ErrDueBeforeStart
	}

	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}

	task := models.Task{
		ID:         uuid.NewString(),
		ProjectID:  project.ID,
		Title:      input.Title,
		Status:     status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		StartAt:    input.StartAt,
		DueDate:    input.DueDate,
		EndAt:      input.EndAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	project.Tasks = append(project.Tasks, task)
	project.UpdatedAt = now

	if err := s.projects.Replace(project); err != nil {
		return nil, fmt.Errorf("failed to persist project: %w", err)
	}

	created := project.FindTask(task.ID)
	s.bus.Publish(events.TaskAdded{
		Project:   project,
		Task:      created.Snapshot(),
		CreatorID: input.CreatorID,
	})

	return created, nil
}

func (s *WorkflowService) loadProject(projectID string) (*models.Project, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}
