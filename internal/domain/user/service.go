package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/williamwinkler/sitt/internal/repository"
)

// Service handles user management.
type Service struct {
	repo     Repository
	projects ProjectPurger
	logger   *slog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, projects ProjectPurger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, projects: projects, logger: logger}
}

// Create creates a new user. Only admins may create users. The generated
// API key is returned once and never listed again.
func (s *Service) Create(ctx context.Context, actor *User, name string, role Role) (*User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(name) == "" || !role.Valid() {
		return nil, ErrInvalidInput
	}

	usr := New(name, role, actor.ID)
	if err := s.repo.Create(ctx, usr); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return usr, nil
}

// Get fetches a user by ID. The API key is redacted unless requested.
func (s *Service) Get(ctx context.Context, id string, includeAPIKey bool) (*User, error) {
	usr, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if !includeAPIKey {
		usr.APIKey = ""
	}
	return usr, nil
}

// GetAll returns all users with API keys redacted. Only admins may list users.
func (s *Service) GetAll(ctx context.Context, actor *User) ([]User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	for i := range users {
		users[i].APIKey = ""
	}
	return users, nil
}

// GetByAPIKey resolves a user from an API key. Used by the transport
// authentication layer.
func (s *Service) GetByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	if len(apiKey) != APIKeyLength {
		return nil, ErrUserNotFound
	}
	usr, err := s.repo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving api key: %w", err)
	}
	return usr, nil
}

// Delete removes a user together with all their projects and time track
// entries. Only admins may delete users.
func (s *Service) Delete(ctx context.Context, actor *User, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	usr, err := s.Get(ctx, id, true)
	if err != nil {
		return err
	}

	// Projects first, so no orphaned records survive the user.
	if err := s.projects.DeleteAllForOwner(ctx, usr); err != nil {
		return fmt.Errorf("deleting projects for user %s: %w", usr.ID, err)
	}

	if err := s.repo.Delete(ctx, usr.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// Bootstrap provisions a root admin when the user table is empty. It returns
// the created user, or nil when users already exist.
func (s *Service) Bootstrap(ctx context.Context) (*User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking existing users: %w", err)
	}
	if len(users) > 0 {
		return nil, nil
	}

	root := New("root", RoleAdmin, "system")
	if err := s.repo.Create(ctx, root); err != nil {
		return nil, fmt.Errorf("creating root user: %w", err)
	}
	s.logger.Info("provisioned root admin user", "user_id", root.ID)
	return root, nil
}
