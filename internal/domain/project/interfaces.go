package project

import (
	"context"
	"time"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, ownerID, id string) (*Project, error)
	GetAll(ctx context.Context, ownerID string) ([]Project, error)
	Update(ctx context.Context, proj *Project, expectedVersion int64) error
	Delete(ctx context.Context, ownerID, id string) error
}

// TrackReader exposes the time track store details the project engine
// needs: the start of an in-progress entry for duration projection, and
// bulk removal when a project goes away.
type TrackReader interface {
	InProgressSince(ctx context.Context, ownerID, projectID string) (time.Time, error)
	DeleteForProject(ctx context.Context, projectID string) error
}
