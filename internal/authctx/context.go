// Package authctx carries the authenticated identity of a single request
// inside its context.Context. An absent value means the request is anonymous.
package authctx

import (
	"context"

	domain "entrepreneur/backend/internal/domain/auth"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

// WithIdentity returns a copy of ctx carrying user. A nil user leaves ctx unchanged.
func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, user)
}

// Identity returns the identity attached to ctx, if any.
func Identity(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
