package auth

import "context"

// UserRepository defines persistence operations for auth users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]*User, int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// UserFilter allows narrowing user queries.
type UserFilter struct {
	// EmailContains matches a case-insensitive substring of the email.
	EmailContains string
	Offset        int
	Limit         int
}

// PasswordHasher hashes and compares passwords with a one-way algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash and ErrPasswordMismatch
	// when it does not. Malformed hashes and library failures yield other errors.
	Compare(hash, password string) error
}
