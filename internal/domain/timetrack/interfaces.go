package timetrack

import (
	"context"

	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

// Repository provides persistence for time track entries.
type Repository interface {
	Create(ctx context.Context, tt *TimeTrack) error
	Get(ctx context.Context, projectID, id string) (*TimeTrack, error)
	GetInProgress(ctx context.Context, ownerID, projectID string) (*TimeTrack, error)
	GetAll(ctx context.Context, ownerID, projectID string) ([]TimeTrack, error)
	Update(ctx context.Context, tt *TimeTrack) error
	Delete(ctx context.Context, ownerID, projectID, id string) (*TimeTrack, error)
}

// ProjectService is the slice of the project engine the time track engine
// writes through. All project status and aggregate mutations go via Apply,
// which owns the retry on concurrent modification.
type ProjectService interface {
	GetStored(ctx context.Context, usr *user.User, id string) (*project.Project, error)
	Apply(ctx context.Context, usr *user.User, id string, change func(proj *project.Project) error) (*project.Project, error)
}
