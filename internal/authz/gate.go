// Package authz decides whether the identity attached to a request may
// invoke an operation. Roles match exactly: ADMIN does not satisfy USER.
package authz

import (
	"context"

	"entrepreneur/backend/internal/authctx"
	domain "entrepreneur/backend/internal/domain/auth"
)

// Decision is the outcome of evaluating a policy.
type Decision int

const (
	// Allow lets the handler run.
	Allow Decision = iota
	// DenyUnauthenticated means no identity was attached to the request.
	DenyUnauthenticated
	// DenyForbidden means an identity was attached but its role does not match.
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

type kind int

const (
	kindUnset kind = iota
	kindPublic
	kindAuthenticated
	kindRole
)

// Policy is the access requirement attached to a route at registration time.
// The zero Policy is unset and denies every request.
type Policy struct {
	kind kind
	role domain.UserRole
}

// Public policies bypass the gate entirely.
func Public() Policy {
	return Policy{kind: kindPublic}
}

// Authenticated requires any identity, whatever its role.
func Authenticated() Policy {
	return Policy{kind: kindAuthenticated}
}

// RequireRole requires an identity whose role equals role.
func RequireRole(role domain.UserRole) Policy {
	return Policy{kind: kindRole, role: role}
}

// IsPublic reports whether the policy skips the gate.
func (p Policy) IsPublic() bool {
	return p.kind == kindPublic
}

// Role returns the required role and whether the policy requires one.
func (p Policy) Role() (domain.UserRole, bool) {
	return p.role, p.kind == kindRole
}

func (p Policy) String() string {
	switch p.kind {
	case kindPublic:
		return "public"
	case kindAuthenticated:
		return "authenticated"
	case kindRole:
		return "role:" + string(p.role)
	default:
		return "unset"
	}
}

// Evaluate applies policy to an identity, which may be nil for anonymous requests.
func Evaluate(user *domain.User, policy Policy) Decision {
	switch policy.kind {
	case kindPublic:
		return Allow
	case kindAuthenticated, kindRole:
	default:
		return DenyForbidden
	}
	if user == nil {
		return DenyUnauthenticated
	}
	if policy.kind == kindRole && user.Role != policy.role {
		return DenyForbidden
	}
	return Allow
}

// Check evaluates policy against the identity attached to ctx.
func Check(ctx context.Context, policy Policy) Decision {
	user, _ := authctx.Identity(ctx)
	return Evaluate(user, policy)
}

// Require checks that the identity attached to ctx holds exactly role.
func Require(ctx context.Context, role domain.UserRole) Decision {
	return Check(ctx, RequireRole(role))
}
