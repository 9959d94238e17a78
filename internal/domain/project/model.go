package project

import (
	"time"

	"github.com/google/uuid"
)

// Status is the tracking state of a project.
type Status string

const (
	// StatusActive means the project has exactly one in-progress time track.
	StatusActive Status = "ACTIVE"
	// StatusInactive means the project has no in-progress time track.
	StatusInactive Status = "INACTIVE"
)

// Name length limits in runes.
const (
	MinNameLength = 1
	MaxNameLength = 25
)

// Project is a named container for tracked time. TotalDurationSecs holds the
// sum of all finished time tracks; in-progress time is projected on top of
// it at read time. Version guards concurrent writers and never leaves the
// backend.
type Project struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Status            Status     `json:"status"`
	TotalDurationSecs int64      `json:"total_duration_secs"`
	Version           int64      `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	CreatedBy         string     `json:"created_by"`
	ModifiedAt        *time.Time `json:"modified_at,omitempty"`
	ModifiedBy        *string    `json:"modified_by,omitempty"`
}

// New creates an inactive project owned by createdBy.
func New(name, createdBy string) *Project {
	return &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusInactive,
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
	}
}
