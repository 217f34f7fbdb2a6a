package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/repository"
)

var ErrProjectNameRequired = errors.New("project name is required")

// ProjectService handles project lifecycle operations. Projects are plain
// documents; all of these are load, tweak, full replace.
type ProjectService struct {
	projects repository.ProjectRepository
	now      func() time.Time
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		now:      time.Now,
	}
}

// SetClock overrides the service clock. Tests use it to pin timestamps.
func (s *ProjectService) SetClock(now func() time.Time) {
	s.now = now
}

// ListForUser returns the projects the user participates in. Hidden
// projects are skipped unless includeHidden is set.
func (s *ProjectService) ListForUser(userID string, includeHidden bool) ([]models.Project, error) {
	projects, err := s.projects.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	visible := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if !p.HasMember(userID) {
			continue
		}
		if p.Hidden && !includeHidden {
			continue
		}
		visible = append(visible, p)
	}
	return visible, nil
}

// Get returns one project document.
func (s *ProjectService) Get(projectID string) (*models.Project, error) {
	return s.load(projectID)
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name     string
	LeaderID string
	Members  []string
	Admins   []string
}

// Create stores a new project document. The leader is always a member.
func (s *ProjectService) Create(input CreateProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, ErrProjectNameRequired
	}

	now := s.now()
	members := append([]string(nil), input.Members...)
	if input.LeaderID != "" && !contains(members, input.LeaderID) {
		members = append(members, input.LeaderID)
	}

	project := &models.Project{
		ID:        uuid.NewString(),
		Name:      input.Name,
		LeaderID:  input.LeaderID,
		Members:   members,
		Admins:    append([]string(nil), input.Admins...),
		Status:    models.ProjectStatusActive,
		Tasks:     []models.Task{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projects.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// SetArchived toggles the archived flag. Archiving also moves the status to
// archived; unarchiving reactivates the project.
func (s *ProjectService) SetArchived(projectID string, archived bool) (*models.Project, error) {
	return s.update(projectID, func(p *models.Project, now time.Time) {
		p.Archived = archived
		if archived {
			p.ArchivedAt = &now
			p.Status = models.ProjectStatusArchived
		} else {
			p.ArchivedAt = nil
			p.Status = models.ProjectStatusActive
		}
	})
}

// SetHidden toggles the hidden flag.
func (s *ProjectService) SetHidden(projectID string, hidden bool) (*models.Project, error) {
	return s.update(projectID, func(p *models.Project, now time.Time) {
		p.Hidden = hidden
		if hidden {
			p.HiddenAt = &now
		} else {
			p.HiddenAt = nil
		}
	})
}

// Stop blocks all work on the project.
func (s *ProjectService) Stop(projectID string) (*models.Project, error) {
	return s.update(projectID, func(p *models.Project, _ time.Time) {
		p.Status = models.ProjectStatusBlocked
	})
}

// Delete removes the project document permanently. There is no approval
// workflow here; the two-phase protocol guards tasks, not projects.
func (s *ProjectService) Delete(projectID string) error {
	if _, err := s.load(projectID); err != nil {
		return err
	}
	if err := s.projects.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) update(projectID string, mutate func(*models.Project, time.Time)) (*models.Project, error) {
	project, err := s.load(projectID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	mutate(project, now)
	project.UpdatedAt = now
	if err := s.projects.Replace(project); err != nil {
		return nil, fmt.Errorf("failed to persist project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) load(projectID string) (*models.Project, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
