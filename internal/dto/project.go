package dto

import (
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/utils"
)

// CreateProjectRequest represents the body for creating a project
type CreateProjectRequest struct {
	Name     string   `json:"name" binding:"required"`
	LeaderID string   `json:"leaderId"`
	Members  []string `json:"members"`
	Admins   []string `json:"admins"`
}

// SetArchivedRequest toggles a project's archived flag
type SetArchivedRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

// SetHiddenRequest toggles a project's hidden flag
type SetHiddenRequest struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []models.Project         `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}
