package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/repository"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository implements project persistence for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (
			id, name, status, total_duration_secs, version,
			created_at, created_by, modified_at, modified_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Status,
		proj.TotalDurationSecs,
		proj.Version,
		proj.CreatedAt,
		proj.CreatedBy,
		proj.ModifiedAt,
		proj.ModifiedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID, scoped to its owner
func (r *ProjectRepository) Get(ctx context.Context, ownerID, id string) (*project.Project, error) {
	query := `
		SELECT id, name, status, total_duration_secs, version,
		       created_at, created_by, modified_at, modified_by
		FROM projects
		WHERE id = ? AND created_by = ?
	`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// GetAll returns all projects owned by a user
func (r *ProjectRepository) GetAll(ctx context.Context, ownerID string) ([]project.Project, error) {
	query := `
		SELECT id, name, status, total_duration_secs, version,
		       created_at, created_by, modified_at, modified_by
		FROM projects
		WHERE created_by = ?
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Update persists the project only if the stored version still equals
// expectedVersion. On success the in-memory version is bumped to match the
// row; a version mismatch returns repository.ErrConflict.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project, expectedVersion int64) error {
	query := `
		UPDATE projects
		SET name = ?, status = ?, total_duration_secs = ?, version = version + 1,
		    modified_at = ?, modified_by = ?
		WHERE id = ? AND created_by = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Status,
		proj.TotalDurationSecs,
		proj.ModifiedAt,
		proj.ModifiedBy,
		proj.ID,
		proj.CreatedBy,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM projects WHERE id = ? AND created_by = ?)`
		if err := r.db.QueryRowContext(ctx, checkQuery, proj.ID, proj.CreatedBy).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check project existence: %w", err)
		}
		if exists {
			return repository.ErrConflict
		}
		return repository.ErrNotFound
	}

	proj.Version = expectedVersion + 1
	return nil
}

// Delete removes a project owned by the user
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM projects WHERE id = ? AND created_by = ?`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var modifiedAt sql.NullTime
	var modifiedBy sql.NullString
	err := row.Scan(
		&proj.ID,
		&proj.Name,
		&proj.Status,
		&proj.TotalDurationSecs,
		&proj.Version,
		&proj.CreatedAt,
		&proj.CreatedBy,
		&modifiedAt,
		&modifiedBy,
	)
	if err != nil {
		return nil, err
	}
	if modifiedAt.Valid {
		proj.ModifiedAt = &modifiedAt.Time
	}
	if modifiedBy.Valid {
		proj.ModifiedBy = &modifiedBy.String
	}
	return &proj, nil
}
