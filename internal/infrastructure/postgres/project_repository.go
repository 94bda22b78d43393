package postgres

import (
	"context"
	"errors"

	domain "entrepreneur/backend/internal/domain/project"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectRepository persists projects in PostgreSQL.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository constructs a repository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

var _ domain.Repository = (*ProjectRepository)(nil)

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
INSERT INTO projects (id, name, description, created_at)
VALUES ($1, $2, $3, $4)
`
	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return err
	}
	return nil
}

// GetByID fetches a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `
SELECT id, name, description, created_at
FROM projects WHERE id = $1
`
	key, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.getOne(ctx, query, key)
}

// GetByName fetches a project by name, ignoring case.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	const query = `
SELECT id, name, description, created_at
FROM projects WHERE lower(name) = lower($1)
`
	return r.getOne(ctx, query, name)
}

func (r *ProjectRepository) getOne(ctx context.Context, query string, arg string) (*domain.Project, error) {
	project, err := scanProject(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// List returns a page of projects, newest first, and the total match count.
func (r *ProjectRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Project, int, error) {
	const where = `WHERE ($1 = '' OR name ILIKE $2)`
	pattern := containsPattern(filter.NameContains)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM projects `+where, filter.NameContains, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
SELECT id, name, description, created_at
FROM projects ` + where + `
ORDER BY created_at DESC, id
LIMIT NULLIF($3, 0) OFFSET $4
`
	rows, err := r.pool.Query(ctx, query, filter.NameContains, pattern, max(filter.Limit, 0), max(filter.Offset, 0))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, project)
	}
	return projects, total, rows.Err()
}

// Update writes project updates to the database.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
UPDATE projects
SET name = $2,
    description = $3
WHERE id = $1
`
	key, ok := parseID(project.ID)
	if !ok {
		return domain.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, query,
		key,
		project.Name,
		project.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a project by id.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	key, ok := parseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, query, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
