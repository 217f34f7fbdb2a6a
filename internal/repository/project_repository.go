package repository

import (
	"errors"

	"github.com/taskboardhq/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository stores project documents in a single table; the
// embedded task list serializes into a JSON column, so Save really is a
// full-document replace.
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// List returns every project document, tasks embedded.
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("created_at").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByID returns one project document or ErrNotFound.
func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create stores a new project document.
func (r *GormProjectRepository) Create(p *models.Project) error {
	return r.db.Create(p).Error
}

// Replace overwrites the stored document with p.
func (r *GormProjectRepository) Replace(p *models.Project) error {
	return r.db.Save(p).Error
}

// Delete removes the document permanently.
func (r *GormProjectRepository) Delete(id string) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}
