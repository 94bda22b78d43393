package project

import "context"

// Repository defines persistence behaviours for projects.
type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context, filter Filter) ([]*Project, int, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
}

// Filter narrows and pages project listings.
type Filter struct {
	// NameContains matches a case-insensitive substring of the name.
	NameContains string
	Offset       int
	Limit        int
}
