package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/repository"
)

func newProject(id, name, ownerID string) *project.Project {
	return &project.Project{
		ID:        id,
		Name:      name,
		Status:    project.StatusInactive,
		CreatedAt: time.Now().UTC(),
		CreatedBy: ownerID,
	}
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("p1", "Website", "u1")
	require.NoError(t, repo.Create(ctx, proj))

	got, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Equal(t, "Website", got.Name)
	require.Equal(t, project.StatusInactive, got.Status)
	require.Equal(t, int64(0), got.Version)
	require.Nil(t, got.ModifiedAt)
}

func TestProjectRepository_Get_OwnerIsolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Website", "u1")))

	_, err := repo.Get(ctx, "u2", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_GetAll(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Website", "u1")))
	require.NoError(t, repo.Create(ctx, newProject("p2", "App", "u1")))
	require.NoError(t, repo.Create(ctx, newProject("p3", "Other", "u2")))

	projects, err := repo.GetAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestProjectRepository_Update_VersionGuard(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("p1", "Website", "u1")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Status = project.StatusActive
	require.NoError(t, repo.Update(ctx, proj, 0))
	require.Equal(t, int64(1), proj.Version)

	// A writer holding the stale version loses.
	stale := newProject("p1", "Website", "u1")
	stale.TotalDurationSecs = 100
	err := repo.Update(ctx, stale, 0)
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Equal(t, project.StatusActive, got.Status)
	require.Equal(t, int64(0), got.TotalDurationSecs)
	require.Equal(t, int64(1), got.Version)
}

func TestProjectRepository_Update_NotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	err := repo.Update(ctx, newProject("missing", "Website", "u1"), 0)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Website", "u1")))
	require.NoError(t, repo.Delete(ctx, "u1", "p1"))

	_, err := repo.Get(ctx, "u1", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Delete(ctx, "u1", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
