package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "entrepreneur/backend/internal/domain/project"

	"github.com/google/uuid"
)

// Service encapsulates project use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a project service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for project creation.
type CreateInput struct {
	Name        string
	Description string
}

// UpdateInput replaces the mutable project fields.
type UpdateInput struct {
	Name        string
	Description string
}

// Filter narrows and pages project listings.
type Filter struct {
	Name   string
	Offset int
	Limit  int
}

// Create stores a new project after validation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("name is required")
	}

	if _, err := s.repo.GetByName(ctx, input.Name); err == nil {
		return nil, domain.ErrDuplicateName
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	project := &domain.Project{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   s.nowFunc().UTC(),
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List retrieves a page of projects and the total match count.
func (s *Service) List(ctx context.Context, filter Filter) ([]*domain.Project, int, error) {
	return s.repo.List(ctx, domain.Filter{
		NameContains: strings.TrimSpace(filter.Name),
		Offset:       filter.Offset,
		Limit:        filter.Limit,
	})
}

// Get fetches a project by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies updates to a project, rejecting names used by another project.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("name cannot be empty")
	}
	if existing, err := s.repo.GetByName(ctx, name); err == nil && existing.ID != project.ID {
		return nil, domain.ErrDuplicateName
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	project.Update(&name, &input.Description)

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id is required")
	}
	return s.repo.Delete(ctx, id)
}
