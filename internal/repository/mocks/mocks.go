package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

var (
	_ project.Repository   = (*ProjectRepository)(nil)
	_ timetrack.Repository = (*TimeTrackRepository)(nil)
	_ project.TrackReader  = (*TimeTrackRepository)(nil)
	_ user.Repository      = (*UserRepository)(nil)
)

// ProjectRepository is a mock project store.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, ownerID, id string) (*project.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetAll(ctx context.Context, ownerID string) ([]project.Project, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project, expectedVersion int64) error {
	args := m.Called(ctx, proj, expectedVersion)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// TimeTrackRepository is a mock time track store.
type TimeTrackRepository struct {
	mock.Mock
}

func (m *TimeTrackRepository) Create(ctx context.Context, tt *timetrack.TimeTrack) error {
	args := m.Called(ctx, tt)
	return args.Error(0)
}

func (m *TimeTrackRepository) Get(ctx context.Context, projectID, id string) (*timetrack.TimeTrack, error) {
	args := m.Called(ctx, projectID, id)
	if tt, ok := args.Get(0).(*timetrack.TimeTrack); ok {
		return tt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeTrackRepository) GetInProgress(ctx context.Context, ownerID, projectID string) (*timetrack.TimeTrack, error) {
	args := m.Called(ctx, ownerID, projectID)
	if tt, ok := args.Get(0).(*timetrack.TimeTrack); ok {
		return tt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeTrackRepository) GetAll(ctx context.Context, ownerID, projectID string) ([]timetrack.TimeTrack, error) {
	args := m.Called(ctx, ownerID, projectID)
	if list, ok := args.Get(0).([]timetrack.TimeTrack); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeTrackRepository) Update(ctx context.Context, tt *timetrack.TimeTrack) error {
	args := m.Called(ctx, tt)
	return args.Error(0)
}

func (m *TimeTrackRepository) Delete(ctx context.Context, ownerID, projectID, id string) (*timetrack.TimeTrack, error) {
	args := m.Called(ctx, ownerID, projectID, id)
	if tt, ok := args.Get(0).(*timetrack.TimeTrack); ok {
		return tt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeTrackRepository) DeleteForProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *TimeTrackRepository) InProgressSince(ctx context.Context, ownerID, projectID string) (time.Time, error) {
	args := m.Called(ctx, ownerID, projectID)
	return args.Get(0).(time.Time), args.Error(1)
}

// UserRepository is a mock user store.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, usr *user.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if usr, ok := args.Get(0).(*user.User); ok {
		return usr, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*user.User, error) {
	args := m.Called(ctx, apiKey)
	if usr, ok := args.Get(0).(*user.User); ok {
		return usr, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetAll(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]user.User); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
