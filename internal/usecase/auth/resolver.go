package auth

import (
	"context"
	"errors"
	"fmt"

	domain "entrepreneur/backend/internal/domain/auth"
)

// Resolver maps an email (a token subject or a login name) to the stored identity.
// Role is always read from storage so changes apply on the very next request.
type Resolver struct {
	users domain.UserRepository
}

// NewResolver constructs a resolver over the user repository.
func NewResolver(users domain.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// ResolveBySubject returns the identity named by a validated token subject,
// without its password hash.
func (r *Resolver) ResolveBySubject(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// LookupForLogin returns the identity including its password hash so the
// credential verifier can compare against it.
func (r *Resolver) LookupForLogin(ctx context.Context, email string) (*domain.User, error) {
	return r.lookup(ctx, email)
}

func (r *Resolver) lookup(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrUserNotFound
	}
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
