package transport

import (
	"time"

	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

type createProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=25"`
}

type updateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=25"`
}

type projectResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Status            string     `json:"status"`
	TotalDuration     string     `json:"total_duration"`
	TotalDurationSecs int64      `json:"total_duration_secs"`
	CreatedAt         time.Time  `json:"created_at"`
	CreatedBy         string     `json:"created_by"`
	ModifiedAt        *time.Time `json:"modified_at,omitempty"`
	ModifiedBy        *string    `json:"modified_by,omitempty"`
}

func toProjectResponse(proj *project.Project) projectResponse {
	return projectResponse{
		ID:                proj.ID,
		Name:              proj.Name,
		Status:            string(proj.Status),
		TotalDuration:     formatDuration(proj.TotalDurationSecs),
		TotalDurationSecs: proj.TotalDurationSecs,
		CreatedAt:         proj.CreatedAt,
		CreatedBy:         proj.CreatedBy,
		ModifiedAt:        proj.ModifiedAt,
		ModifiedBy:        proj.ModifiedBy,
	}
}

type startTimeTrackRequest struct {
	Comment string `json:"comment" validate:"max=1000"`
}

type createTimeTrackRequest struct {
	ProjectID string    `json:"project_id" validate:"required"`
	StartedAt time.Time `json:"started_at" validate:"required"`
	StoppedAt time.Time `json:"stopped_at" validate:"required"`
	Comment   string    `json:"comment" validate:"max=1000"`
}

type updateTimeTrackRequest struct {
	StartedAt time.Time `json:"started_at" validate:"required"`
	StoppedAt time.Time `json:"stopped_at" validate:"required"`
	Comment   *string   `json:"comment" validate:"omitempty,max=1000"`
}

type timeTrackResponse struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	StoppedAt    *time.Time `json:"stopped_at,omitempty"`
	Duration     string     `json:"duration"`
	DurationSecs int64      `json:"duration_secs"`
	CreatedBy    string     `json:"created_by"`
}

func toTimeTrackResponse(tt *timetrack.TimeTrack) timeTrackResponse {
	return timeTrackResponse{
		ID:           tt.ID,
		ProjectID:    tt.ProjectID,
		Status:       string(tt.Status),
		Comment:      tt.Comment,
		StartedAt:    tt.StartedAt,
		StoppedAt:    tt.StoppedAt,
		Duration:     formatDuration(tt.TotalDurationSecs),
		DurationSecs: tt.TotalDurationSecs,
		CreatedBy:    tt.CreatedBy,
	}
}

type createUserRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
	Role string `json:"role" validate:"required,oneof=ADMIN USER"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	APIKey    string    `json:"api_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

func toUserResponse(usr *user.User) userResponse {
	return userResponse{
		ID:        usr.ID,
		Name:      usr.Name,
		Role:      string(usr.Role),
		APIKey:    usr.APIKey,
		CreatedAt: usr.CreatedAt,
		CreatedBy: usr.CreatedBy,
	}
}

func formatDuration(secs int64) string {
	return (time.Duration(secs) * time.Second).String()
}
