package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboardhq/taskboard-api/internal/dto"
	apierrors "github.com/taskboardhq/taskboard-api/internal/errors"
	"github.com/taskboardhq/taskboard-api/internal/middleware"
	"github.com/taskboardhq/taskboard-api/internal/services"
	"github.com/taskboardhq/taskboard-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns the caller's projects with their embedded tasks.
// Hidden projects are included only when ?includeHidden=true.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	includeHidden := c.Query("includeHidden") == "true"
	projects, err := h.projectService.ListForUser(identity.ID, includeHidden)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects: utils.Page(projects, params),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int64(len(projects)),
		},
	})
}

// GetProject returns one project document.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject creates a new project led by the caller unless a leader is
// named explicitly.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	leaderID := req.LeaderID
	if leaderID == "" {
		leaderID = identity.ID
	}

	project, err := h.projectService.Create(services.CreateProjectInput{
		Name:     req.Name,
		LeaderID: leaderID,
		Members:  req.Members,
		Admins:   req.Admins,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// SetArchived toggles the archived flag.
func (h *ProjectHandler) SetArchived(c *gin.Context) {
	var req dto.SetArchivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.SetArchived(c.Param("id"), *req.Archived)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// SetHidden toggles the hidden flag.
func (h *ProjectHandler) SetHidden(c *gin.Context) {
	var req dto.SetHiddenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.SetHidden(c.Param("id"), *req.Hidden)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// StopProject blocks all work on the project.
func (h *ProjectHandler) StopProject(c *gin.Context) {
	project, err := h.projectService.Stop(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes the project permanently. Only the leader or an
// admin identity may do this.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, err := h.projectService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !identity.IsAdmin() && project.LeaderID != identity.ID {
		apierrors.Forbidden(c, "Only the project leader or an admin can delete a project")
		return
	}

	if err := h.projectService.Delete(project.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
