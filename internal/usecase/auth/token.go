package auth

import (
	"time"

	domain "entrepreneur/backend/internal/domain/auth"
)

// TokenManager abstracts token issuance and verification.
type TokenManager interface {
	Issue(user *domain.User) (IssuedToken, error)
	Validate(token string) Validation
}

// IssuedToken is a freshly signed access token.
type IssuedToken struct {
	AccessToken string
	ExpiresAt   time.Time
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64
}

// Validation is the outcome of checking a presented token. Every failure
// (malformed, bad signature, expired, wrong issuer) collapses to Valid == false.
type Validation struct {
	Subject string
	Valid   bool
}

// Accepted returns a successful validation for subject.
func Accepted(subject string) Validation {
	return Validation{Subject: subject, Valid: true}
}

// Rejected is the single failed validation outcome.
var Rejected = Validation{}
