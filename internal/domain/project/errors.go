package project

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTooManyProjects indicates the user reached the project cap.
	ErrTooManyProjects = errors.New("too many projects")
	// ErrInvalidName indicates the project name is empty or too long.
	ErrInvalidName = fmt.Errorf("project name must be between %d and %d characters", MinNameLength, MaxNameLength)
	// ErrConflict indicates the project was modified concurrently and the
	// operation gave up after retrying.
	ErrConflict = errors.New("project was modified concurrently")
	// ErrInvariantViolation indicates the stored state contradicts itself,
	// such as an active project with no in-progress time track.
	ErrInvariantViolation = errors.New("project state is inconsistent")
)

// NameConflictError indicates another project already carries the name.
type NameConflictError struct {
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("a project named %q already exists", e.Name)
}
