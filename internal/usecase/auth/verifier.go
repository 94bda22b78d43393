package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domain "entrepreneur/backend/internal/domain/auth"
)

// dummyPassword is hashed once and compared against when the email is
// unknown, so both failure paths cost one hash comparison.
const dummyPassword = "not-a-real-password-7f3c9a"

// Verifier checks an email and plaintext password against the stored hash.
type Verifier struct {
	resolver *Resolver
	hasher   domain.PasswordHasher

	dummyMu   sync.Mutex
	dummyHash string
}

// NewVerifier constructs a credential verifier.
func NewVerifier(resolver *Resolver, hasher domain.PasswordHasher) *Verifier {
	return &Verifier{resolver: resolver, hasher: hasher}
}

// Verify returns the full identity on success. Unknown emails and wrong
// passwords both fail with domain.ErrInvalidCredentials. Storage and
// hashing failures are returned as other errors.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := v.resolver.LookupForLogin(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		hash, err := v.fallbackHash()
		if err != nil {
			return nil, err
		}
		if err := v.compare(hash, password); err != nil && !errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	if err := v.compare(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

func (v *Verifier) compare(hash, password string) error {
	err := v.hasher.Compare(hash, password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrPasswordMismatch):
		return domain.ErrInvalidCredentials
	default:
		return fmt.Errorf("verify password: %w", err)
	}
}

// fallbackHash returns the dummy hash, computing it on first use. A failed
// computation is returned and retried on the next call rather than cached.
func (v *Verifier) fallbackHash() (string, error) {
	v.dummyMu.Lock()
	defer v.dummyMu.Unlock()

	if v.dummyHash == "" {
		hash, err := v.hasher.Hash(dummyPassword)
		if err != nil {
			return "", fmt.Errorf("hash dummy password: %w", err)
		}
		v.dummyHash = hash
	}
	return v.dummyHash, nil
}
