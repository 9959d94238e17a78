package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/williamwinkler/sitt/internal/domain/user"
	"github.com/williamwinkler/sitt/internal/repository"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user persistence for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, usr *user.User) error {
	query := `
		INSERT INTO users (id, name, role, api_key, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		usr.ID,
		usr.Name,
		usr.Role,
		usr.APIKey,
		usr.CreatedAt,
		usr.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT id, name, role, api_key, created_at, created_by
		FROM users
		WHERE id = ?
	`

	usr, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return usr, nil
}

// GetByAPIKey retrieves a user by API key
func (r *UserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*user.User, error) {
	query := `
		SELECT id, name, role, api_key, created_at, created_by
		FROM users
		WHERE api_key = ?
	`

	usr, err := scanUser(r.db.QueryRowContext(ctx, query, apiKey))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by api key: %w", err)
	}

	return usr, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]user.User, error) {
	query := `
		SELECT id, name, role, api_key, created_at, created_by
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *usr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

func scanUser(row rowScanner) (*user.User, error) {
	var usr user.User
	err := row.Scan(
		&usr.ID,
		&usr.Name,
		&usr.Role,
		&usr.APIKey,
		&usr.CreatedAt,
		&usr.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &usr, nil
}
