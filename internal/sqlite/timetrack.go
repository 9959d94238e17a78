package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
	"github.com/williamwinkler/sitt/internal/repository"
)

var (
	_ timetrack.Repository = (*TimeTrackRepository)(nil)
	_ project.TrackReader  = (*TimeTrackRepository)(nil)
)

// TimeTrackRepository implements time track persistence for SQLite
type TimeTrackRepository struct {
	db *DB
}

// NewTimeTrackRepository creates a new TimeTrackRepository
func NewTimeTrackRepository(db *DB) *TimeTrackRepository {
	return &TimeTrackRepository{db: db}
}

// Create creates a new time track entry
func (r *TimeTrackRepository) Create(ctx context.Context, tt *timetrack.TimeTrack) error {
	query := `
		INSERT INTO time_tracks (
			project_id, id, status, comment, started_at, stopped_at,
			total_duration_secs, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tt.ProjectID,
		tt.ID,
		tt.Status,
		tt.Comment,
		tt.StartedAt,
		tt.StoppedAt,
		tt.TotalDurationSecs,
		tt.CreatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create time track: %w", err)
	}

	return nil
}

// Get retrieves a time track entry by (projectID, id)
func (r *TimeTrackRepository) Get(ctx context.Context, projectID, id string) (*timetrack.TimeTrack, error) {
	query := `
		SELECT project_id, id, status, comment, started_at, stopped_at,
		       total_duration_secs, created_by
		FROM time_tracks
		WHERE project_id = ? AND id = ?
	`

	tt, err := scanTimeTrack(r.db.QueryRowContext(ctx, query, projectID, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time track: %w", err)
	}

	return tt, nil
}

// GetInProgress returns the project's in-progress entry for the owner
func (r *TimeTrackRepository) GetInProgress(ctx context.Context, ownerID, projectID string) (*timetrack.TimeTrack, error) {
	query := `
		SELECT project_id, id, status, comment, started_at, stopped_at,
		       total_duration_secs, created_by
		FROM time_tracks
		WHERE project_id = ? AND created_by = ? AND status = 'IN_PROGRESS'
		LIMIT 1
	`

	tt, err := scanTimeTrack(r.db.QueryRowContext(ctx, query, projectID, ownerID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get in-progress time track: %w", err)
	}

	return tt, nil
}

// GetAll returns all of the owner's entries for a project
func (r *TimeTrackRepository) GetAll(ctx context.Context, ownerID, projectID string) ([]timetrack.TimeTrack, error) {
	query := `
		SELECT project_id, id, status, comment, started_at, stopped_at,
		       total_duration_secs, created_by
		FROM time_tracks
		WHERE project_id = ? AND created_by = ?
		ORDER BY started_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time tracks: %w", err)
	}
	defer rows.Close()

	var entries []timetrack.TimeTrack
	for rows.Next() {
		tt, err := scanTimeTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time track: %w", err)
		}
		entries = append(entries, *tt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time track rows: %w", err)
	}

	return entries, nil
}

// Update updates a time track entry
func (r *TimeTrackRepository) Update(ctx context.Context, tt *timetrack.TimeTrack) error {
	query := `
		UPDATE time_tracks
		SET status = ?, comment = ?, started_at = ?, stopped_at = ?,
		    total_duration_secs = ?
		WHERE project_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		tt.Status,
		tt.Comment,
		tt.StartedAt,
		tt.StoppedAt,
		tt.TotalDurationSecs,
		tt.ProjectID,
		tt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time track: %w", err)
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

// Delete removes an entry created by ownerID and returns what was deleted.
// Entries created by other users are invisible here and report not found.
func (r *TimeTrackRepository) Delete(ctx context.Context, ownerID, projectID, id string) (*timetrack.TimeTrack, error) {
	query := `
		SELECT project_id, id, status, comment, started_at, stopped_at,
		       total_duration_secs, created_by
		FROM time_tracks
		WHERE project_id = ? AND id = ? AND created_by = ?
	`

	tt, err := scanTimeTrack(r.db.QueryRowContext(ctx, query, projectID, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time track: %w", err)
	}

	deleteQuery := `DELETE FROM time_tracks WHERE project_id = ? AND id = ? AND created_by = ?`
	result, err := r.db.ExecContext(ctx, deleteQuery, projectID, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete time track: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	return tt, nil
}

// DeleteForProject removes all entries of a project. Deleting nothing is
// not an error.
func (r *TimeTrackRepository) DeleteForProject(ctx context.Context, projectID string) error {
	query := `DELETE FROM time_tracks WHERE project_id = ?`

	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("failed to delete time tracks for project: %w", err)
	}

	return nil
}

// InProgressSince returns the start time of the project's in-progress entry
func (r *TimeTrackRepository) InProgressSince(ctx context.Context, ownerID, projectID string) (time.Time, error) {
	query := `
		SELECT started_at
		FROM time_tracks
		WHERE project_id = ? AND created_by = ? AND status = 'IN_PROGRESS'
		LIMIT 1
	`

	var startedAt time.Time
	err := r.db.QueryRowContext(ctx, query, projectID, ownerID).Scan(&startedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, repository.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get in-progress start: %w", err)
	}

	return startedAt, nil
}

func scanTimeTrack(row rowScanner) (*timetrack.TimeTrack, error) {
	var tt timetrack.TimeTrack
	var stoppedAt sql.NullTime
	err := row.Scan(
		&tt.ProjectID,
		&tt.ID,
		&tt.Status,
		&tt.Comment,
		&tt.StartedAt,
		&stoppedAt,
		&tt.TotalDurationSecs,
		&tt.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if stoppedAt.Valid {
		tt.StoppedAt = &stoppedAt.Time
	}
	return &tt, nil
}
