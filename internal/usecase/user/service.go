package user

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "entrepreneur/backend/internal/domain/auth"

	"github.com/google/uuid"
)

// Service provides user management use cases for administrative workflows.
type Service struct {
	repo    domain.UserRepository
	hasher  domain.PasswordHasher
	nowFunc func() time.Time
}

// NewService constructs a user service around the provided repository.
func NewService(repo domain.UserRepository, hasher domain.PasswordHasher) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		nowFunc: time.Now,
	}
}

// Filter captures supported filters for listing users.
type Filter struct {
	Email  string
	Offset int
	Limit  int
}

// CreateInput defines the payload to create a new user.
type CreateInput struct {
	Email    string
	Password string
	Role     string
}

// UpdateInput defines the payload to update a user. Nil fields are left untouched.
type UpdateInput struct {
	Email    *string
	Password *string
	Role     *string
}

// List returns a page of users matching the supplied filter and the total match count.
func (s *Service) List(ctx context.Context, filter Filter) ([]*domain.User, int, error) {
	users, total, err := s.repo.List(ctx, domain.UserFilter{
		EmailContains: strings.TrimSpace(filter.Email),
		Offset:        filter.Offset,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	return sanitizeUsers(users), total, nil
}

// Get retrieves a single user by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// Create persists a new user with the provided details. An empty role defaults to USER.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, errors.New("password is required")
	}

	role, err := ensureRole(input.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Role:         role,
		PasswordHash: hashed,
		CreatedAt:    s.nowFunc().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user.Sanitize(), nil
}

// Update modifies the persisted user. CreatedAt is never changed.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, errors.New("email is required")
		}
		if email != user.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, domain.ErrEmailExists
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if input.Password != nil && strings.TrimSpace(*input.Password) != "" {
		hashed, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.Sanitize(), nil
}

// Delete removes the target user.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("user id is required")
	}
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin provisions an ADMIN identity for email unless one with that
// email already exists. It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.Create(ctx, CreateInput{Email: email, Password: password, Role: string(domain.RoleAdmin)})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrEmailExists):
		return false, nil
	default:
		return false, err
	}
}

func ensureRole(raw string) (domain.UserRole, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.RoleUser, nil
	}
	return domain.ParseRole(raw)
}

func sanitizeUsers(items []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(items))
	for _, item := range items {
		out = append(out, item.Sanitize())
	}
	return out
}
