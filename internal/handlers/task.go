package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboardhq/taskboard-api/internal/dto"
	apierrors "github.com/taskboardhq/taskboard-api/internal/errors"
	"github.com/taskboardhq/taskboard-api/internal/middleware"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/projections"
	"github.com/taskboardhq/taskboard-api/internal/services"
)

type TaskHandler struct {
	workflowService *services.WorkflowService
	projectService  *services.ProjectService
}

func NewTaskHandler(workflowService *services.WorkflowService, projectService *services.ProjectService) *TaskHandler {
	return &TaskHandler{
		workflowService: workflowService,
		projectService:  projectService,
	}
}

// ListTasks returns the project's tasks with time metadata evaluated at
// request time. With ?grouped=true the tasks come back bucketed by status
// instead, bucket order following first occurrence.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	project, err := h.projectService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if c.Query("grouped") == "true" {
		c.JSON(http.StatusOK, dto.ToGroupedTasksResponse(projections.GroupTasksByStatus(project.Tasks)))
		return
	}

	now := time.Now()
	tasks := make([]dto.TaskWithTimeDTO, len(project.Tasks))
	for i, task := range project.Tasks {
		tasks[i] = dto.TaskWithTimeDTO{
			Task: task,
			Time: dto.ToTaskTimeDTO(projections.ComputeTaskTimeMeta(&project.Tasks[i], now), now),
		}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTaskTime returns one task's time metadata. Callers poll this; every
// response is recomputed against the current clock.
func (h *TaskHandler) GetTaskTime(c *gin.Context) {
	project, err := h.projectService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	task := project.FindTask(c.Param("taskId"))
	if task == nil {
		apierrors.NotFound(c, "Task not found")
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, dto.ToTaskTimeDTO(projections.ComputeTaskTimeMeta(task, now), now))
}

// AddTask appends a new task to the project. Any project participant may
// add tasks.
func (h *TaskHandler) AddTask(c *gin.Context) {
	identity, project, ok := h.loadProjectWithIdentity(c)
	if !ok {
		return
	}
	if !project.HasMember(identity.ID) && !identity.IsAdmin() {
		apierrors.Forbidden(c, "You are not a member of this project")
		return
	}

	var req dto.AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.workflowService.AddTask(services.AddTaskInput{
		ProjectID:  project.ID,
		CreatorID:  identity.ID,
		Title:      req.Title,
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		StartAt:    req.StartAt,
		DueDate:    req.DueDate,
		EndAt:      req.EndAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// RequestDelete flags a task for deletion on behalf of the caller.
func (h *TaskHandler) RequestDelete(c *gin.Context) {
	identity, project, ok := h.loadProjectWithIdentity(c)
	if !ok {
		return
	}
	if !services.CanRequestDelete(project, identity) {
		apierrors.Forbidden(c, "Only project participants can request a task deletion")
		return
	}

	result, err := h.workflowService.RequestDelete(project.ID, c.Param("taskId"), identity.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RequestDeleteResponse{
		Project:      result.UpdatedProject,
		TaskSnapshot: result.TaskSnapshot,
	})
}

// ConfirmDelete resolves a pending delete request. Only the project leader,
// a project admin or an admin identity may decide.
func (h *TaskHandler) ConfirmDelete(c *gin.Context) {
	identity, project, ok := h.loadProjectWithIdentity(c)
	if !ok {
		return
	}
	if !services.CanConfirmDelete(project, identity) {
		apierrors.Forbidden(c, "Only the project leader or an admin can resolve a delete request")
		return
	}

	var req dto.ConfirmDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.workflowService.ConfirmDelete(services.ConfirmDeleteInput{
		ProjectID:        project.ID,
		TaskID:           c.Param("taskId"),
		ApproverID:       identity.ID,
		ApproverName:     identity.Name,
		Approve:          *req.Approve,
		FallbackSnapshot: req.TaskSnapshot,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ConfirmDeleteResponse{
		Approved:     result.Approved,
		Deleted:      result.Deleted,
		Project:      result.UpdatedProject,
		TaskSnapshot: result.TaskSnapshot,
	})
}

func (h *TaskHandler) loadProjectWithIdentity(c *gin.Context) (models.Identity, *models.Project, bool) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return models.Identity{}, nil, false
	}
	project, err := h.projectService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return models.Identity{}, nil, false
	}
	return identity, project, true
}
