package project

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a project could not be located.
	ErrNotFound = errors.New("project not found")
	// ErrDuplicateName signals a project name clash, compared case-insensitively.
	ErrDuplicateName = errors.New("project with this name already exists")
)

// Project captures the state of an individual project.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Update applies arbitrary field updates to the project.
func (p *Project) Update(name, description *string) {
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
}
