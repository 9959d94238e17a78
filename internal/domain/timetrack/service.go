package timetrack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/user"
	"github.com/williamwinkler/sitt/internal/repository"
)

// Service handles time track operations. Every project write goes through
// the project engine so that status, aggregate duration and modification
// metadata have a single writer.
type Service struct {
	repo     Repository
	projects ProjectService
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new time track service.
func NewService(repo Repository, projects ProjectService, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:     repo,
		projects: projects,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins tracking time on a project, with an optional comment on the
// new entry. The project flips to active before the entry is written; if
// the entry write fails, the flip is compensated. A project already
// tracking time returns AlreadyTrackingError.
func (s *Service) Start(ctx context.Context, usr *user.User, projectID, comment string) (*TimeTrack, error) {
	if !validComment(comment) {
		return nil, ErrInvalidComment
	}

	proj, err := s.projects.Apply(ctx, usr, projectID, func(proj *project.Project) error {
		if proj.Status != project.StatusInactive {
			return &AlreadyTrackingError{ProjectName: proj.Name}
		}
		proj.Status = project.StatusActive
		return nil
	})
	if err != nil {
		return nil, mapProjectError(err)
	}

	tt := NewInProgress(projectID, s.now(), comment, usr.ID)
	if err := s.repo.Create(ctx, tt); err != nil {
		s.logger.Error("failed to create time track after activating project",
			"project_id", projectID, "user_id", usr.ID, "error", err)
		if _, compErr := s.projects.Apply(ctx, usr, projectID, func(proj *project.Project) error {
			proj.Status = project.StatusInactive
			return nil
		}); compErr != nil {
			s.logger.Error("failed to deactivate project after time track create failure",
				"project_id", projectID, "user_id", usr.ID, "error", compErr)
		}
		return nil, fmt.Errorf("creating time track: %w", err)
	}

	s.logger.Info("started tracking", "project_id", proj.ID, "time_track_id", tt.ID, "user_id", usr.ID)
	return tt, nil
}

// Stop finishes the project's in-progress entry, folds its duration into
// the project total and flips the project inactive.
func (s *Service) Stop(ctx context.Context, usr *user.User, projectID string) (*TimeTrack, error) {
	proj, err := s.projects.GetStored(ctx, usr, projectID)
	if err != nil {
		return nil, mapProjectError(err)
	}
	if proj.Status != project.StatusActive {
		return nil, &NoTrackingError{ProjectName: proj.Name}
	}

	tt, err := s.repo.GetInProgress(ctx, usr.ID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("active project has no in-progress time track",
				"project_id", projectID, "user_id", usr.ID)
			return nil, project.ErrInvariantViolation
		}
		return nil, fmt.Errorf("getting in-progress time track: %w", err)
	}

	now := s.now()
	tt.Status = StatusFinished
	tt.StoppedAt = &now
	tt.TotalDurationSecs = durationSecs(tt.StartedAt, now)
	if err := s.repo.Update(ctx, tt); err != nil {
		return nil, fmt.Errorf("finishing time track: %w", err)
	}

	if _, err := s.projects.Apply(ctx, usr, projectID, func(proj *project.Project) error {
		// A racing stop may have folded the duration in already; the fresh
		// read decides.
		if proj.Status != project.StatusActive {
			return &NoTrackingError{ProjectName: proj.Name}
		}
		proj.Status = project.StatusInactive
		proj.TotalDurationSecs += tt.TotalDurationSecs
		return nil
	}); err != nil {
		var noTracking *NoTrackingError
		if !errors.As(err, &noTracking) {
			s.logger.Error("time track finished but project was not updated",
				"project_id", projectID, "time_track_id", tt.ID,
				"duration_secs", tt.TotalDurationSecs, "user_id", usr.ID, "error", err)
		}
		return nil, mapProjectError(err)
	}

	s.logger.Info("stopped tracking", "project_id", projectID, "time_track_id", tt.ID,
		"duration_secs", tt.TotalDurationSecs, "user_id", usr.ID)
	return tt, nil
}

// CreateRequest defines inputs for logging a finished interval by hand.
type CreateRequest struct {
	ProjectID string
	StartedAt time.Time
	StoppedAt time.Time
	Comment   string
}

// Create logs a finished entry and adds its duration to the project total.
// The tracking state machine is untouched.
func (s *Service) Create(ctx context.Context, usr *user.User, req CreateRequest) (*TimeTrack, error) {
	if !req.StoppedAt.After(req.StartedAt) {
		return nil, ErrInvalidTimeRange
	}
	if !validComment(req.Comment) {
		return nil, ErrInvalidComment
	}

	if _, err := s.projects.GetStored(ctx, usr, req.ProjectID); err != nil {
		return nil, mapProjectError(err)
	}

	tt := NewFinished(req.ProjectID, req.StartedAt, req.StoppedAt, req.Comment, usr.ID)
	if err := s.repo.Create(ctx, tt); err != nil {
		return nil, fmt.Errorf("creating time track: %w", err)
	}

	if _, err := s.projects.Apply(ctx, usr, req.ProjectID, func(proj *project.Project) error {
		proj.TotalDurationSecs += tt.TotalDurationSecs
		return nil
	}); err != nil {
		s.logger.Error("time track created but project aggregate was not updated",
			"project_id", req.ProjectID, "time_track_id", tt.ID,
			"duration_secs", tt.TotalDurationSecs, "user_id", usr.ID, "error", err)
		return nil, mapProjectError(err)
	}
	return tt, nil
}

// GetAll returns the project's entries ordered by start time, oldest first.
// In-progress entries carry their elapsed duration as of now.
func (s *Service) GetAll(ctx context.Context, usr *user.User, projectID string) ([]TimeTrack, error) {
	if _, err := s.projects.GetStored(ctx, usr, projectID); err != nil {
		return nil, mapProjectError(err)
	}

	entries, err := s.repo.GetAll(ctx, usr.ID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing time tracks: %w", err)
	}

	now := s.now()
	for i := range entries {
		if entries[i].Status == StatusInProgress {
			entries[i].TotalDurationSecs = durationSecs(entries[i].StartedAt, now)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})
	return entries, nil
}

// GetInProgress returns the project's in-progress entry with its elapsed
// duration, or NoTrackingError when nothing is being tracked.
func (s *Service) GetInProgress(ctx context.Context, usr *user.User, projectID string) (*TimeTrack, error) {
	proj, err := s.projects.GetStored(ctx, usr, projectID)
	if err != nil {
		return nil, mapProjectError(err)
	}

	tt, err := s.repo.GetInProgress(ctx, usr.ID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NoTrackingError{ProjectName: proj.Name}
		}
		return nil, fmt.Errorf("getting in-progress time track: %w", err)
	}
	tt.TotalDurationSecs = durationSecs(tt.StartedAt, s.now())
	return tt, nil
}

// UpdateRequest defines inputs for editing a finished entry. A nil Comment
// leaves the stored comment alone.
type UpdateRequest struct {
	ProjectID string
	ID        string
	StartedAt time.Time
	StoppedAt time.Time
	Comment   *string
}

// Update edits a finished entry's interval and, optionally, its comment.
// The difference between old and new duration is applied to the project
// total, so the aggregate stays the sum of its finished entries.
func (s *Service) Update(ctx context.Context, usr *user.User, req UpdateRequest) (*TimeTrack, error) {
	if !req.StoppedAt.After(req.StartedAt) {
		return nil, ErrInvalidTimeRange
	}
	if req.Comment != nil && !validComment(*req.Comment) {
		return nil, ErrInvalidComment
	}

	tt, err := s.repo.Get(ctx, req.ProjectID, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting time track: %w", err)
	}
	if tt.CreatedBy != usr.ID {
		return nil, ErrNotFound
	}
	if tt.Status != StatusFinished {
		return nil, ErrNotFinished
	}

	oldSecs := tt.TotalDurationSecs
	stopped := req.StoppedAt
	tt.StartedAt = req.StartedAt
	tt.StoppedAt = &stopped
	if req.Comment != nil {
		tt.Comment = *req.Comment
	}
	tt.TotalDurationSecs = durationSecs(req.StartedAt, req.StoppedAt)
	if err := s.repo.Update(ctx, tt); err != nil {
		return nil, fmt.Errorf("updating time track: %w", err)
	}

	if delta := tt.TotalDurationSecs - oldSecs; delta != 0 {
		if _, err := s.projects.Apply(ctx, usr, req.ProjectID, func(proj *project.Project) error {
			proj.TotalDurationSecs += delta
			return nil
		}); err != nil {
			s.logger.Error("time track updated but project aggregate was not updated",
				"project_id", req.ProjectID, "time_track_id", tt.ID,
				"delta_secs", delta, "user_id", usr.ID, "error", err)
			return nil, mapProjectError(err)
		}
	}
	return tt, nil
}

// Delete removes an entry the user created. A finished entry's duration is
// subtracted from the project total; deleting the in-progress entry flips
// the project inactive instead.
func (s *Service) Delete(ctx context.Context, usr *user.User, projectID, id string) error {
	tt, err := s.repo.Delete(ctx, usr.ID, projectID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting time track: %w", err)
	}

	_, err = s.projects.Apply(ctx, usr, projectID, func(proj *project.Project) error {
		switch tt.Status {
		case StatusFinished:
			proj.TotalDurationSecs -= tt.TotalDurationSecs
		case StatusInProgress:
			proj.Status = project.StatusInactive
		}
		return nil
	})
	if err != nil {
		s.logger.Error("time track deleted but project was not updated",
			"project_id", projectID, "time_track_id", tt.ID,
			"status", tt.Status, "duration_secs", tt.TotalDurationSecs,
			"user_id", usr.ID, "error", err)
		return mapProjectError(err)
	}
	return nil
}

func mapProjectError(err error) error {
	if errors.Is(err, project.ErrProjectNotFound) {
		return ErrProjectNotFound
	}
	return err
}

func validComment(comment string) bool {
	return utf8.RuneCountInString(comment) <= MaxCommentLength
}
