package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/williamwinkler/sitt/internal/domain/user"
	"github.com/williamwinkler/sitt/internal/repository"
)

// maxUpdateAttempts bounds the retry loop around version-guarded writes.
const maxUpdateAttempts = 3

// Service handles project operations. It is the only writer of project
// status, aggregate duration and modification metadata.
type Service struct {
	repo        Repository
	tracks      TrackReader
	maxProjects int
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new project service. maxProjects caps the number of
// projects a non-admin user may own.
func NewService(repo Repository, tracks TrackReader, maxProjects int, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:        repo,
		tracks:      tracks,
		maxProjects: maxProjects,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new project for the user. Names must be unique among the
// user's projects, and non-admin users are capped at maxProjects.
func (s *Service) Create(ctx context.Context, usr *user.User, name string) (*Project, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}

	existing, err := s.repo.GetAll(ctx, usr.ID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if len(existing) >= s.maxProjects && !usr.IsAdmin() {
		return nil, ErrTooManyProjects
	}
	for _, proj := range existing {
		if proj.Name == name {
			return nil, &NameConflictError{Name: name}
		}
	}

	proj := New(name, usr.ID)
	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// Get fetches a project by ID with in-progress time projected into the
// total duration.
func (s *Service) Get(ctx context.Context, usr *user.User, id string) (*Project, error) {
	proj, err := s.GetStored(ctx, usr, id)
	if err != nil {
		return nil, err
	}
	if err := s.projectDuration(ctx, usr, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// GetStored fetches a project by ID exactly as persisted, without duration
// projection.
func (s *Service) GetStored(ctx context.Context, usr *user.User, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, usr.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// GetAll returns the user's projects, active ones first, then most recently
// modified. In-progress time is projected into each total duration.
func (s *Service) GetAll(ctx context.Context, usr *user.User) ([]Project, error) {
	projects, err := s.repo.GetAll(ctx, usr.ID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	for i := range projects {
		if err := s.projectDuration(ctx, usr, &projects[i]); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(projects, func(i, j int) bool {
		a, b := &projects[i], &projects[j]
		if a.Status != b.Status {
			return a.Status == StatusActive
		}
		return lastTouched(a).After(lastTouched(b))
	})
	return projects, nil
}

// Rename changes the project's name.
func (s *Service) Rename(ctx context.Context, usr *user.User, id, name string) (*Project, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}
	return s.Apply(ctx, usr, id, func(proj *Project) error {
		proj.Name = name
		return nil
	})
}

// Update persists the project if its version still matches the store,
// stamping modification metadata. Callers race against other writers; use
// Apply for automatic retry.
func (s *Service) Update(ctx context.Context, usr *user.User, proj *Project) error {
	now := s.now()
	proj.ModifiedAt = &now
	proj.ModifiedBy = &usr.ID

	if err := s.repo.Update(ctx, proj, proj.Version); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return ErrConflict
		case errors.Is(err, repository.ErrNotFound):
			return ErrProjectNotFound
		}
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

// Apply reads the project, applies the change and writes it back under the
// version guard, retrying on concurrent modification. The change function
// sees a fresh read on every attempt.
func (s *Service) Apply(ctx context.Context, usr *user.User, id string, change func(proj *Project) error) (*Project, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		proj, err := s.GetStored(ctx, usr, id)
		if err != nil {
			return nil, err
		}
		if err := change(proj); err != nil {
			return nil, err
		}
		if err := s.Update(ctx, usr, proj); err != nil {
			if errors.Is(err, ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return proj, nil
	}
	return nil, lastErr
}

// Delete removes a project and all its time track entries.
func (s *Service) Delete(ctx context.Context, usr *user.User, id string) error {
	if _, err := s.GetStored(ctx, usr, id); err != nil {
		return err
	}
	if err := s.tracks.DeleteForProject(ctx, id); err != nil {
		return fmt.Errorf("deleting time tracks for project %s: %w", id, err)
	}
	if err := s.repo.Delete(ctx, usr.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// DeleteAllForOwner removes every project the user owns, cascading to their
// time track entries.
func (s *Service) DeleteAllForOwner(ctx context.Context, usr *user.User) error {
	projects, err := s.repo.GetAll(ctx, usr.ID)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	for _, proj := range projects {
		if err := s.Delete(ctx, usr, proj.ID); err != nil {
			return err
		}
	}
	return nil
}

// projectDuration adds the elapsed time of an active project's in-progress
// entry to its total. An active project without an in-progress entry is a
// broken invariant and is reported, not repaired.
func (s *Service) projectDuration(ctx context.Context, usr *user.User, proj *Project) error {
	if proj.Status != StatusActive {
		return nil
	}
	since, err := s.tracks.InProgressSince(ctx, usr.ID, proj.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("active project has no in-progress time track",
				"project_id", proj.ID, "user_id", usr.ID)
			return ErrInvariantViolation
		}
		return fmt.Errorf("reading in-progress time track: %w", err)
	}
	elapsed := s.now().Sub(since)
	if elapsed > 0 {
		proj.TotalDurationSecs += int64(elapsed / time.Second)
	}
	return nil
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= MinNameLength && n <= MaxNameLength
}

func lastTouched(proj *Project) time.Time {
	if proj.ModifiedAt != nil {
		return *proj.ModifiedAt
	}
	return proj.CreatedAt
}
