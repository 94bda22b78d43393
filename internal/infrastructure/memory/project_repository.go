package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domain "entrepreneur/backend/internal/domain/project"
)

// ProjectRepository keeps projects in a map guarded by a RWMutex.
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	seq      map[string]int
	next     int
}

// NewProjectRepository constructs an empty repository.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		projects: map[string]domain.Project{},
		seq:      map[string]int{},
	}
}

var _ domain.Repository = (*ProjectRepository)(nil)

// Create inserts a new project.
func (r *ProjectRepository) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(project.Name, "") {
		return domain.ErrDuplicateName
	}
	r.projects[project.ID] = *project
	r.next++
	r.seq[project.ID] = r.next
	return nil
}

// GetByID fetches a project by id.
func (r *ProjectRepository) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// GetByName fetches a project by name, ignoring case.
func (r *ProjectRepository) GetByName(_ context.Context, name string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns a page of projects, newest first, plus the total match count.
func (r *ProjectRepository) List(_ context.Context, filter domain.Filter) ([]*domain.Project, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter.NameContains))
	matched := make([]domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return r.seq[matched[i].ID] > r.seq[matched[j].ID]
	})

	window := paginate(len(matched), filter.Offset, filter.Limit)
	out := make([]*domain.Project, 0, window.end-window.start)
	for i := window.start; i < window.end; i++ {
		p := matched[i]
		out = append(out, &p)
	}
	return out, len(matched), nil
}

// Update writes project updates.
func (r *ProjectRepository) Update(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.projects[project.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(project.Name, project.ID) {
		return domain.ErrDuplicateName
	}
	updated := *project
	updated.CreatedAt = current.CreatedAt
	r.projects[project.ID] = updated
	return nil
}

// Delete removes a project by id.
func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	delete(r.seq, id)
	return nil
}

func (r *ProjectRepository) nameTaken(name, exceptID string) bool {
	for id, p := range r.projects {
		if id != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
