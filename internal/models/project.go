package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusBlocked   ProjectStatus = "blocked"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project is stored as a single document: every write replaces the whole
// row, including the embedded task list. There is no field-level merge and
// no version column, so concurrent writers race last-writer-wins.
type Project struct {
	ID         string        `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name       string        `gorm:"type:varchar(255);not null" json:"name"`
	LeaderID   string        `gorm:"type:varchar(64);index" json:"leaderId"`
	Members    []string      `gorm:"serializer:json" json:"members"`
	Admins     []string      `gorm:"serializer:json" json:"admins,omitempty"`
	Status     ProjectStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Hidden     bool          `json:"hidden"`
	HiddenAt   *time.Time    `json:"hiddenAt,omitempty"`
	Archived   bool          `json:"archived"`
	ArchivedAt *time.Time    `json:"archivedAt,omitempty"`
	Tasks      []Task        `gorm:"serializer:json" json:"tasks"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// FindTask returns the embedded task with the given id, or nil.
func (p *Project) FindTask(taskID string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return &p.Tasks[i]
		}
	}
	return nil
}

// RemoveTask deletes the embedded task with the given id, reporting
// whether anything was removed.
func (p *Project) RemoveTask(taskID string) bool {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// HasMember reports whether the user participates in the project as leader
// or member.
func (p *Project) HasMember(userID string) bool {
	if p.LeaderID == userID {
		return true
	}
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
