package postgres

import (
	"context"
	"errors"

	domain "entrepreneur/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository persists users in PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ domain.UserRepository = (*UserRepository)(nil)

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
INSERT INTO users (id, email, role, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by email, ignoring case.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
SELECT id, email, role, password_hash, created_at
FROM users WHERE lower(email) = lower($1)
`
	row := r.pool.QueryRow(ctx, query, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
SELECT id, email, role, password_hash, created_at
FROM users WHERE id = $1
`
	key, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	row := r.pool.QueryRow(ctx, query, key)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns a page of users, newest first, and the total match count.
func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int, error) {
	const where = `WHERE ($1 = '' OR email ILIKE $2)`
	pattern := containsPattern(filter.EmailContains)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users `+where, filter.EmailContains, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
SELECT id, email, role, password_hash, created_at
FROM users ` + where + `
ORDER BY created_at DESC, id
LIMIT NULLIF($3, 0) OFFSET $4
`
	rows, err := r.pool.Query(ctx, query, filter.EmailContains, pattern, max(filter.Limit, 0), max(filter.Offset, 0))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update modifies an existing user record. An empty PasswordHash keeps the stored hash.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
UPDATE users
SET email = $2, role = $3, password_hash = COALESCE(NULLIF($4, ''), password_hash)
WHERE id = $1
`
	key, ok := parseID(user.ID)
	if !ok {
		return domain.ErrUserNotFound
	}
	ct, err := r.pool.Exec(ctx, query,
		key,
		user.Email,
		user.Role,
		user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	key, ok := parseID(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	ct, err := r.pool.Exec(ctx, query, key)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Role,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
