package password

import (
	"errors"
	"fmt"

	domain "entrepreneur/backend/internal/domain/auth"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

// Ensure Bcrypt implements the PasswordHasher interface.
var _ domain.PasswordHasher = (*Bcrypt)(nil)

// NewBcrypt constructs a hasher. Out of range costs fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (b *Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare returns nil when password matches hash and domain.ErrPasswordMismatch
// when it does not. A malformed hash yields any other error.
func (b *Bcrypt) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.ErrPasswordMismatch
	default:
		return fmt.Errorf("compare password hash: %w", err)
	}
}
