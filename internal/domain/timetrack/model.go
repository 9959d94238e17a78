package timetrack

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a time track entry.
type Status string

const (
	// StatusInProgress means the entry is still accumulating time.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusFinished means the entry is closed and its duration is final.
	StatusFinished Status = "FINISHED"
)

// MaxCommentLength caps entry comments in runes.
const MaxCommentLength = 1000

// TimeTrack is a single interval of tracked time on a project. Entries are
// keyed by (ProjectID, ID). An in-progress entry has no StoppedAt and its
// duration is derived from the clock at read time.
type TimeTrack struct {
	ID                string     `json:"id"`
	ProjectID         string     `json:"project_id"`
	Status            Status     `json:"status"`
	Comment           string     `json:"comment,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	StoppedAt         *time.Time `json:"stopped_at,omitempty"`
	TotalDurationSecs int64      `json:"total_duration_secs"`
	CreatedBy         string     `json:"created_by"`
}

// NewInProgress creates an open entry starting at startedAt.
func NewInProgress(projectID string, startedAt time.Time, comment, createdBy string) *TimeTrack {
	return &TimeTrack{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Status:    StatusInProgress,
		Comment:   comment,
		StartedAt: startedAt,
		CreatedBy: createdBy,
	}
}

// NewFinished creates a closed entry spanning [startedAt, stoppedAt).
func NewFinished(projectID string, startedAt, stoppedAt time.Time, comment, createdBy string) *TimeTrack {
	stopped := stoppedAt
	return &TimeTrack{
		ID:                uuid.NewString(),
		ProjectID:         projectID,
		Status:            StatusFinished,
		Comment:           comment,
		StartedAt:         startedAt,
		StoppedAt:         &stopped,
		TotalDurationSecs: durationSecs(startedAt, stoppedAt),
		CreatedBy:         createdBy,
	}
}

func durationSecs(from, to time.Time) int64 {
	return int64(to.Sub(from) / time.Second)
}
