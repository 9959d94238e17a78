package mcp

import (
	"errors"
	"fmt"

	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unmapped errors return
// nil and should be passed through as-is.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var alreadyTracking *timetrack.AlreadyTrackingError
	var noTracking *timetrack.NoTrackingError
	var nameConflict *project.NameConflictError

	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, timetrack.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "List projects to find valid IDs"}
	case errors.Is(err, timetrack.ErrNotFound):
		return &APIError{Code: "TIME_TRACK_NOT_FOUND", Message: "time track entry not found", RecoveryHint: "List the project's entries to find valid IDs"}
	case errors.As(err, &alreadyTracking):
		return &APIError{Code: "ALREADY_TRACKING", Message: err.Error(), RecoveryHint: "Stop tracking before starting again"}
	case errors.As(err, &noTracking):
		return &APIError{Code: "NO_TRACKING", Message: err.Error(), RecoveryHint: "Start tracking first"}
	case errors.As(err, &nameConflict):
		return &APIError{Code: "NAME_CONFLICT", Message: err.Error(), RecoveryHint: "Pick a different project name"}
	case errors.Is(err, project.ErrTooManyProjects):
		return &APIError{Code: "TOO_MANY_PROJECTS", Message: "project limit reached", RecoveryHint: "Delete an unused project first"}
	case errors.Is(err, project.ErrInvalidName),
		errors.Is(err, timetrack.ErrInvalidTimeRange),
		errors.Is(err, timetrack.ErrNotFinished),
		errors.Is(err, timetrack.ErrInvalidComment):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, project.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "project was modified concurrently", RecoveryHint: "Retry the operation"}
	default:
		return nil
	}
}

// toolError wraps a domain error for a tool response, preferring the
// mapped MCP code when one exists.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
