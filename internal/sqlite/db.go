package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations provisions the schema. Idempotent; safe to run on startup.
func (db *DB) RunMigrations() error {
	migration := `
-- Users table
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('ADMIN', 'USER')),
    api_key TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL,
    created_by TEXT NOT NULL
);

-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('ACTIVE', 'INACTIVE')),
    total_duration_secs INTEGER NOT NULL DEFAULT 0,
    version INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    created_by TEXT NOT NULL,
    modified_at TIMESTAMP,
    modified_by TEXT
);
CREATE INDEX IF NOT EXISTS idx_owner_projects ON projects(created_by);

-- Time track entries, keyed by (project_id, id)
CREATE TABLE IF NOT EXISTS time_tracks (
    project_id TEXT NOT NULL,
    id TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('IN_PROGRESS', 'FINISHED')),
    comment TEXT NOT NULL DEFAULT '',
    started_at TIMESTAMP NOT NULL,
    stopped_at TIMESTAMP,
    total_duration_secs INTEGER NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL,
    PRIMARY KEY (project_id, id),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_project_status ON time_tracks(project_id, status);
CREATE INDEX IF NOT EXISTS idx_owner_tracks ON time_tracks(created_by);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
