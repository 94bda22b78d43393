package auth

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrPasswordMismatch is returned by a PasswordHasher when the password
	// does not match a well-formed hash.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRole indicates the provided role is not supported.
	ErrInvalidRole = errors.New("invalid role")
)

// UserRole identifies the privileges assigned to a user.
type UserRole string

const (
	// RoleUser represents a standard application user.
	RoleUser UserRole = "USER"
	// RoleAdmin represents an administrative user.
	RoleAdmin UserRole = "ADMIN"
)

// ParseRole maps user input onto the closed role set, ignoring case.
func ParseRole(raw string) (UserRole, error) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether the role belongs to the closed role set.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models the authentication entity persisted in storage.
type User struct {
	ID           string
	Email        string
	Role         UserRole
	PasswordHash string
	CreatedAt    time.Time
}

// Credentials captures raw credential input for login.
type Credentials struct {
	Email    string
	Password string
}

// NormalizeEmail trims and case-folds an email so lookups and writes compare equal.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Sanitize returns a copy of the user without the password hash.
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
