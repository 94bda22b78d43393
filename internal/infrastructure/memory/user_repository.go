// Package memory provides process-local repositories used by the memory
// storage driver and by tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domain "entrepreneur/backend/internal/domain/auth"
)

// UserRepository keeps users in a map guarded by a RWMutex.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	seq   map[string]int
	next  int
}

// NewUserRepository constructs an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: map[string]domain.User{},
		seq:   map[string]int{},
	}
}

var _ domain.UserRepository = (*UserRepository)(nil)

// Create inserts a new user record.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return domain.ErrEmailExists
	}
	r.users[user.ID] = *user
	r.next++
	r.seq[user.ID] = r.next
	return nil
}

// GetByEmail fetches a user by email, ignoring case.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// List returns a page of users, newest first, plus the total match count.
func (r *UserRepository) List(_ context.Context, filter domain.UserFilter) ([]*domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter.EmailContains))
	matched := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		if needle == "" || strings.Contains(strings.ToLower(u.Email), needle) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return r.seq[matched[i].ID] > r.seq[matched[j].ID]
	})

	window := paginate(len(matched), filter.Offset, filter.Limit)
	out := make([]*domain.User, 0, window.end-window.start)
	for i := window.start; i < window.end; i++ {
		u := matched[i]
		out = append(out, &u)
	}
	return out, len(matched), nil
}

// Update modifies an existing user record.
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrEmailExists
	}
	updated := *user
	updated.CreatedAt = current.CreatedAt
	if updated.PasswordHash == "" {
		updated.PasswordHash = current.PasswordHash
	}
	r.users[user.ID] = updated
	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.seq, id)
	return nil
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
