package timetrack_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
	"github.com/williamwinkler/sitt/internal/domain/user"
	"github.com/williamwinkler/sitt/internal/repository"
	"github.com/williamwinkler/sitt/internal/repository/mocks"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testUser() *user.User {
	return &user.User{ID: "u1", Name: "alice", Role: user.RoleUser}
}

// newEngines wires a time track service to a real project engine over
// mocked repositories, so project writes exercise the version-guarded path.
func newEngines(projRepo *mocks.ProjectRepository, ttRepo *mocks.TimeTrackRepository) *timetrack.Service {
	projects := project.NewService(projRepo, ttRepo, 15, nil,
		project.WithClock(func() time.Time { return now }))
	return timetrack.NewService(ttRepo, projects, nil,
		timetrack.WithClock(func() time.Time { return now }))
}

func storedProject(status project.Status, totalSecs int64) *project.Project {
	return &project.Project{
		ID:                "p1",
		Name:              "Website",
		Status:            status,
		TotalDurationSecs: totalSecs,
		CreatedBy:         "u1",
	}
}

func TestTimeTrackService_Start(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusInactive, 0), nil)
	projRepo.On("Update", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.Status == project.StatusActive
	}), int64(0)).Return(nil)
	ttRepo.On("Create", ctx, mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	tt, err := svc.Start(ctx, usr, "p1", "standup notes")
	require.NoError(t, err)
	require.Equal(t, timetrack.StatusInProgress, tt.Status)
	require.Equal(t, "standup notes", tt.Comment)
	require.True(t, tt.StartedAt.Equal(now))
	require.Nil(t, tt.StoppedAt)
	require.Equal(t, usr.ID, tt.CreatedBy)
	projRepo.AssertExpectations(t)
}

func TestTimeTrackService_Start_CommentTooLong(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	svc := newEngines(projRepo, ttRepo)
	_, err := svc.Start(ctx, usr, "p1", strings.Repeat("x", timetrack.MaxCommentLength+1))
	require.ErrorIs(t, err, timetrack.ErrInvalidComment)
	projRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	ttRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTimeTrackService_Start_AlreadyTracking(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 0), nil)

	svc := newEngines(projRepo, ttRepo)
	_, err := svc.Start(ctx, usr, "p1", "")

	var already *timetrack.AlreadyTrackingError
	require.ErrorAs(t, err, &already)
	require.Equal(t, "Website", already.ProjectName)
	ttRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	projRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTimeTrackService_Start_ProjectNotFound(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	projRepo.On("Get", ctx, usr.ID, "missing").Return(nil, repository.ErrNotFound)

	svc := newEngines(projRepo, &mocks.TimeTrackRepository{})
	_, err := svc.Start(ctx, usr, "missing", "")
	require.ErrorIs(t, err, timetrack.ErrProjectNotFound)
}

func TestTimeTrackService_Start_CompensatesOnCreateFailure(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusInactive, 0), nil)
	projRepo.On("Update", ctx, mock.Anything, mock.Anything).Return(nil)
	ttRepo.On("Create", ctx, mock.Anything).Return(repository.ErrForeignKeyViolation)

	svc := newEngines(projRepo, ttRepo)
	_, err := svc.Start(ctx, usr, "p1", "")
	require.Error(t, err)
	// Activation plus the compensating flip back to inactive.
	projRepo.AssertNumberOfCalls(t, "Update", 2)
}

func TestTimeTrackService_Stop(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 600), nil)
	ttRepo.On("GetInProgress", ctx, usr.ID, "p1").Return(&timetrack.TimeTrack{
		ID:        "t1",
		ProjectID: "p1",
		Status:    timetrack.StatusInProgress,
		StartedAt: now.Add(-125 * time.Second),
		CreatedBy: usr.ID,
	}, nil)
	ttRepo.On("Update", ctx, mock.Anything).Return(nil)
	projRepo.On("Update", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.Status == project.StatusInactive && p.TotalDurationSecs == 725
	}), mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	tt, err := svc.Stop(ctx, usr, "p1")
	require.NoError(t, err)
	require.Equal(t, timetrack.StatusFinished, tt.Status)
	require.Equal(t, int64(125), tt.TotalDurationSecs)
	require.NotNil(t, tt.StoppedAt)
	require.True(t, tt.StoppedAt.Equal(now))
	projRepo.AssertExpectations(t)
}

func TestTimeTrackService_Stop_NothingInProgress(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusInactive, 0), nil)

	svc := newEngines(projRepo, ttRepo)
	_, err := svc.Stop(ctx, usr, "p1")

	var noTracking *timetrack.NoTrackingError
	require.ErrorAs(t, err, &noTracking)
	require.Equal(t, "Website", noTracking.ProjectName)
	ttRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	projRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTimeTrackService_Stop_BrokenInvariant(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 0), nil)
	ttRepo.On("GetInProgress", ctx, usr.ID, "p1").Return(nil, repository.ErrNotFound)

	svc := newEngines(projRepo, ttRepo)
	_, err := svc.Stop(ctx, usr, "p1")
	require.ErrorIs(t, err, project.ErrInvariantViolation)
}

func TestTimeTrackService_Stop_ConcurrentStopFoldsOnce(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	// The initial read still sees the project active, but by the time the
	// version-guarded write re-reads it, a concurrent stop has already
	// deactivated the project and folded the 100s in.
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 0), nil).Once()
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusInactive, 100), nil)
	ttRepo.On("GetInProgress", ctx, usr.ID, "p1").Return(&timetrack.TimeTrack{
		ID:        "t1",
		ProjectID: "p1",
		Status:    timetrack.StatusInProgress,
		StartedAt: now.Add(-100 * time.Second),
		CreatedBy: usr.ID,
	}, nil)
	ttRepo.On("Update", ctx, mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	_, err := svc.Stop(ctx, usr, "p1")

	var noTracking *timetrack.NoTrackingError
	require.ErrorAs(t, err, &noTracking)
	require.Equal(t, "Website", noTracking.ProjectName)
	projRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTimeTrackService_Stop_LogsWhenProjectUpdateFails(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	// Fresh project per read so each retry sees the stored state again.
	for range 4 {
		projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 600), nil).Once()
	}
	projRepo.On("Update", ctx, mock.Anything, mock.Anything).Return(repository.ErrConflict)
	ttRepo.On("GetInProgress", ctx, usr.ID, "p1").Return(&timetrack.TimeTrack{
		ID:        "t1",
		ProjectID: "p1",
		Status:    timetrack.StatusInProgress,
		StartedAt: now.Add(-100 * time.Second),
		CreatedBy: usr.ID,
	}, nil)
	ttRepo.On("Update", ctx, mock.Anything).Return(nil)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	projects := project.NewService(projRepo, ttRepo, 15, logger,
		project.WithClock(func() time.Time { return now }))
	svc := timetrack.NewService(ttRepo, projects, logger,
		timetrack.WithClock(func() time.Time { return now }))

	_, err := svc.Stop(ctx, usr, "p1")
	require.ErrorIs(t, err, project.ErrConflict)
	// The entry is finished but its duration never reached the project;
	// the intermediate state must be on record.
	require.Contains(t, buf.String(), "time track finished but project was not updated")
	require.Contains(t, buf.String(), "t1")
}

func TestTimeTrackService_Create(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusInactive, 600), nil)
	ttRepo.On("Create", ctx, mock.Anything).Return(nil)
	projRepo.On("Update", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.TotalDurationSecs == 600+3600 && p.Status == project.StatusInactive
	}), mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	tt, err := svc.Create(ctx, usr, timetrack.CreateRequest{
		ProjectID: "p1",
		StartedAt: now.Add(-2 * time.Hour),
		StoppedAt: now.Add(-time.Hour),
		Comment:   "retro logging",
	})
	require.NoError(t, err)
	require.Equal(t, timetrack.StatusFinished, tt.Status)
	require.Equal(t, int64(3600), tt.TotalDurationSecs)
	projRepo.AssertExpectations(t)
}

func TestTimeTrackService_Create_InvalidInput(t *testing.T) {
	ctx := context.Background()
	usr := testUser()
	svc := newEngines(&mocks.ProjectRepository{}, &mocks.TimeTrackRepository{})

	_, err := svc.Create(ctx, usr, timetrack.CreateRequest{
		ProjectID: "p1",
		StartedAt: now,
		StoppedAt: now,
	})
	require.ErrorIs(t, err, timetrack.ErrInvalidTimeRange)

	_, err = svc.Create(ctx, usr, timetrack.CreateRequest{
		ProjectID: "p1",
		StartedAt: now.Add(-time.Hour),
		StoppedAt: now,
		Comment:   strings.Repeat("x", timetrack.MaxCommentLength+1),
	})
	require.ErrorIs(t, err, timetrack.ErrInvalidComment)
}

func TestTimeTrackService_Update_DeltaPropagation(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	stopped := now.Add(-time.Hour)
	started := stopped.Add(-100 * time.Second)

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	ttRepo.On("Get", ctx, "p1", "t1").Return(&timetrack.TimeTrack{
		ID:                "t1",
		ProjectID:         "p1",
		Status:            timetrack.StatusFinished,
		StartedAt:         started,
		StoppedAt:         &stopped,
		TotalDurationSecs: 100,
		CreatedBy:         usr.ID,
	}, nil)
	ttRepo.On("Update", ctx, mock.Anything).Return(nil)
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusInactive, 100), nil)
	projRepo.On("Update", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.TotalDurationSecs == 40
	}), mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	comment := "trimmed"
	tt, err := svc.Update(ctx, usr, timetrack.UpdateRequest{
		ProjectID: "p1",
		ID:        "t1",
		StartedAt: started,
		StoppedAt: started.Add(40 * time.Second),
		Comment:   &comment,
	})
	require.NoError(t, err)
	require.Equal(t, int64(40), tt.TotalDurationSecs)
	require.Equal(t, "trimmed", tt.Comment)
	projRepo.AssertExpectations(t)
}

func TestTimeTrackService_Update_OmittedCommentKept(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	stopped := now.Add(-time.Hour)
	started := stopped.Add(-100 * time.Second)

	ttRepo := &mocks.TimeTrackRepository{}
	ttRepo.On("Get", ctx, "p1", "t1").Return(&timetrack.TimeTrack{
		ID:                "t1",
		ProjectID:         "p1",
		Status:            timetrack.StatusFinished,
		Comment:           "pairing session",
		StartedAt:         started,
		StoppedAt:         &stopped,
		TotalDurationSecs: 100,
		CreatedBy:         usr.ID,
	}, nil)
	ttRepo.On("Update", ctx, mock.Anything).Return(nil)

	svc := newEngines(&mocks.ProjectRepository{}, ttRepo)
	tt, err := svc.Update(ctx, usr, timetrack.UpdateRequest{
		ProjectID: "p1",
		ID:        "t1",
		StartedAt: started,
		StoppedAt: stopped,
	})
	require.NoError(t, err)
	require.Equal(t, "pairing session", tt.Comment, "interval-only edit keeps the comment")
}

func TestTimeTrackService_Update_UnchangedDurationSkipsProject(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	stopped := now.Add(-time.Hour)
	started := stopped.Add(-100 * time.Second)

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	ttRepo.On("Get", ctx, "p1", "t1").Return(&timetrack.TimeTrack{
		ID:                "t1",
		ProjectID:         "p1",
		Status:            timetrack.StatusFinished,
		StartedAt:         started,
		StoppedAt:         &stopped,
		TotalDurationSecs: 100,
		CreatedBy:         usr.ID,
	}, nil)
	ttRepo.On("Update", ctx, mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	comment := "comment only"
	_, err := svc.Update(ctx, usr, timetrack.UpdateRequest{
		ProjectID: "p1",
		ID:        "t1",
		StartedAt: started,
		StoppedAt: stopped,
		Comment:   &comment,
	})
	require.NoError(t, err)
	projRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTimeTrackService_Update_InProgressRejected(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	ttRepo := &mocks.TimeTrackRepository{}
	ttRepo.On("Get", ctx, "p1", "t1").Return(&timetrack.TimeTrack{
		ID:        "t1",
		ProjectID: "p1",
		Status:    timetrack.StatusInProgress,
		StartedAt: now.Add(-time.Minute),
		CreatedBy: usr.ID,
	}, nil)

	svc := newEngines(&mocks.ProjectRepository{}, ttRepo)
	_, err := svc.Update(ctx, usr, timetrack.UpdateRequest{
		ProjectID: "p1",
		ID:        "t1",
		StartedAt: now.Add(-time.Hour),
		StoppedAt: now,
	})
	require.ErrorIs(t, err, timetrack.ErrNotFinished)
}

func TestTimeTrackService_Update_OtherUsersEntryHidden(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	ttRepo := &mocks.TimeTrackRepository{}
	ttRepo.On("Get", ctx, "p1", "t1").Return(&timetrack.TimeTrack{
		ID:        "t1",
		ProjectID: "p1",
		Status:    timetrack.StatusFinished,
		CreatedBy: "someone-else",
	}, nil)

	svc := newEngines(&mocks.ProjectRepository{}, ttRepo)
	_, err := svc.Update(ctx, usr, timetrack.UpdateRequest{
		ProjectID: "p1",
		ID:        "t1",
		StartedAt: now.Add(-time.Hour),
		StoppedAt: now,
	})
	require.ErrorIs(t, err, timetrack.ErrNotFound)
}

func TestTimeTrackService_Delete_FinishedSubtractsDuration(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	ttRepo.On("Delete", ctx, usr.ID, "p1", "t1").Return(&timetrack.TimeTrack{
		ID:                "t1",
		ProjectID:         "p1",
		Status:            timetrack.StatusFinished,
		TotalDurationSecs: 300,
		CreatedBy:         usr.ID,
	}, nil)
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusInactive, 900), nil)
	projRepo.On("Update", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.TotalDurationSecs == 600
	}), mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	require.NoError(t, svc.Delete(ctx, usr, "p1", "t1"))
	projRepo.AssertExpectations(t)
}

func TestTimeTrackService_Delete_InProgressDeactivatesProject(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	ttRepo.On("Delete", ctx, usr.ID, "p1", "t1").Return(&timetrack.TimeTrack{
		ID:        "t1",
		ProjectID: "p1",
		Status:    timetrack.StatusInProgress,
		StartedAt: now.Add(-time.Minute),
		CreatedBy: usr.ID,
	}, nil)
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 900), nil)
	projRepo.On("Update", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.Status == project.StatusInactive && p.TotalDurationSecs == 900
	}), mock.Anything).Return(nil)

	svc := newEngines(projRepo, ttRepo)
	require.NoError(t, svc.Delete(ctx, usr, "p1", "t1"))
	projRepo.AssertExpectations(t)
}

func TestTimeTrackService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	ttRepo := &mocks.TimeTrackRepository{}
	ttRepo.On("Delete", ctx, usr.ID, "p1", "missing").Return(nil, repository.ErrNotFound)

	svc := newEngines(&mocks.ProjectRepository{}, ttRepo)
	err := svc.Delete(ctx, usr, "p1", "missing")
	require.ErrorIs(t, err, timetrack.ErrNotFound)
}

func TestTimeTrackService_GetAll_LiveDurations(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	stopped := now.Add(-time.Hour)
	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 0), nil)
	ttRepo.On("GetAll", ctx, usr.ID, "p1").Return([]timetrack.TimeTrack{
		{
			ID:        "t2",
			Status:    timetrack.StatusInProgress,
			StartedAt: now.Add(-30 * time.Second),
		},
		{
			ID:                "t1",
			Status:            timetrack.StatusFinished,
			StartedAt:         stopped.Add(-100 * time.Second),
			StoppedAt:         &stopped,
			TotalDurationSecs: 100,
		},
	}, nil)

	svc := newEngines(projRepo, ttRepo)
	entries, err := svc.GetAll(ctx, usr, "p1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "t1", entries[0].ID, "entries ordered by start time")
	require.Equal(t, int64(100), entries[0].TotalDurationSecs)
	require.Equal(t, "t2", entries[1].ID)
	require.Equal(t, int64(30), entries[1].TotalDurationSecs, "in-progress duration projected to now")
}

func TestTimeTrackService_GetInProgress(t *testing.T) {
	ctx := context.Background()
	usr := testUser()

	projRepo := &mocks.ProjectRepository{}
	ttRepo := &mocks.TimeTrackRepository{}

	projRepo.On("Get", ctx, usr.ID, "p1").Return(storedProject(project.StatusActive, 0), nil)
	ttRepo.On("GetInProgress", ctx, usr.ID, "p1").Return(&timetrack.TimeTrack{
		ID:        "t1",
		ProjectID: "p1",
		Status:    timetrack.StatusInProgress,
		StartedAt: now.Add(-45 * time.Second),
		CreatedBy: usr.ID,
	}, nil)

	svc := newEngines(projRepo, ttRepo)
	tt, err := svc.GetInProgress(ctx, usr, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(45), tt.TotalDurationSecs)
}
