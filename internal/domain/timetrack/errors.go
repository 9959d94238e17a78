package timetrack

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the time track entry doesn't exist.
	ErrNotFound = errors.New("time track entry not found")
	// ErrProjectNotFound indicates the entry's project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidTimeRange indicates stopped_at is not after started_at.
	ErrInvalidTimeRange = errors.New("stopped_at must be after started_at")
	// ErrNotFinished indicates the entry is still in progress and cannot be
	// edited. Stop it first.
	ErrNotFinished = errors.New("time track entry is still in progress")
	// ErrInvalidComment indicates the comment exceeds MaxCommentLength.
	ErrInvalidComment = fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
)

// AlreadyTrackingError indicates a start on a project that is already
// tracking time.
type AlreadyTrackingError struct {
	ProjectName string
}

func (e *AlreadyTrackingError) Error() string {
	return fmt.Sprintf("time is already being tracked on project %q", e.ProjectName)
}

// NoTrackingError indicates a stop on a project with nothing in progress.
type NoTrackingError struct {
	ProjectName string
}

func (e *NoTrackingError) Error() string {
	return fmt.Sprintf("no time is being tracked on project %q", e.ProjectName)
}
