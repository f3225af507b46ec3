package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascollins/portfolioctl/internal/models"
)

var errNotFound = errors.New("not found")

// fakeBackend is an in-memory Backend counting list fetches.
type fakeBackend struct {
	mu sync.Mutex

	user         models.User
	projects     []models.Project
	achievements []models.Achievement
	nextID       int64

	profileFetches int
	projectFetches int
	achFetches     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		user:   models.User{Name: "Alex", Email: "alex@example.com", Version: 1},
		nextID: 1,
	}
}

func (b *fakeBackend) Profile(context.Context) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profileFetches++
	return b.user, nil
}

func (b *fakeBackend) UpdateProfile(_ context.Context, u models.User) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u.Version = b.user.Version + 1
	b.user = u
	return u, nil
}

func (b *fakeBackend) ListProjects(context.Context) ([]models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projectFetches++
	return append([]models.Project(nil), b.projects...), nil
}

func (b *fakeBackend) CreateProject(_ context.Context, p models.Project) (models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = b.nextID
	b.nextID++
	p.Version = 1
	b.projects = append(b.projects, p)
	return p, nil
}

func (b *fakeBackend) UpdateProject(_ context.Context, id int64, p models.Project) (models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.projects {
		if b.projects[i].ID == id {
			p.ID = id
			p.Version = b.projects[i].Version + 1
			b.projects[i] = p
			return p, nil
		}
	}
	return models.Project{}, errNotFound
}

func (b *fakeBackend) DeleteProject(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.projects {
		if b.projects[i].ID == id {
			b.projects = append(b.projects[:i], b.projects[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (b *fakeBackend) ListAchievements(context.Context) ([]models.Achievement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.achFetches++
	return append([]models.Achievement(nil), b.achievements...), nil
}

func (b *fakeBackend) CreateAchievement(_ context.Context, a models.Achievement) (models.Achievement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a.ID = b.nextID
	b.nextID++
	a.Version = 1
	b.achievements = append(b.achievements, a)
	return a, nil
}

func (b *fakeBackend) UpdateAchievement(_ context.Context, id int64, a models.Achievement) (models.Achievement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.achievements {
		if b.achievements[i].ID == id {
			a.ID = id
			a.Version = b.achievements[i].Version + 1
			b.achievements[i] = a
			return a, nil
		}
	}
	return models.Achievement{}, errNotFound
}

func (b *fakeBackend) DeleteAchievement(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.achievements {
		if b.achievements[i].ID == id {
			b.achievements = append(b.achievements[:i], b.achievements[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (b *fakeBackend) Activities(context.Context) ([]models.Activity, error) {
	return nil, nil
}

func (b *fakeBackend) Settings(context.Context) ([]models.SettingsItem, error) {
	return nil, nil
}

func (b *fakeBackend) counts() (profile, projects, achievements int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profileFetches, b.projectFetches, b.achFetches
}

func TestClient_ListIsCached(t *testing.T) {
	backend := newFakeBackend()
	c := NewClient(backend, time.Minute, nil)
	ctx := context.Background()

	_, err := c.Projects(ctx)
	require.NoError(t, err)
	_, err = c.Projects(ctx)
	require.NoError(t, err)

	_, fetches, _ := backend.counts()
	assert.Equal(t, 1, fetches, "repeat reads within the TTL must hit the cache")
}

func TestClient_MutationInvalidatesItsResource(t *testing.T) {
	backend := newFakeBackend()
	c := NewClient(backend, time.Minute, nil)
	ctx := context.Background()

	_, err := c.Projects(ctx)
	require.NoError(t, err)

	created, err := c.CreateProject(ctx, models.Project{Title: "Portfolio", Description: "d"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := c.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "the read after a create must see the new entity")
	assert.Equal(t, "Portfolio", got[0].Title)

	_, fetches, _ := backend.counts()
	assert.Equal(t, 2, fetches, "the create must have evicted the cached list")
}

func TestClient_MutationDoesNotEvictOtherResources(t *testing.T) {
	backend := newFakeBackend()
	c := NewClient(backend, time.Minute, nil)
	ctx := context.Background()

	_, err := c.Achievements(ctx)
	require.NoError(t, err)

	_, err = c.CreateProject(ctx, models.Project{Title: "P"})
	require.NoError(t, err)

	_, err = c.Achievements(ctx)
	require.NoError(t, err)

	_, _, achFetches := backend.counts()
	assert.Equal(t, 1, achFetches, "a project mutation must not evict achievements")
}

func TestClient_DeleteInvalidates(t *testing.T) {
	backend := newFakeBackend()
	c := NewClient(backend, time.Minute, nil)
	ctx := context.Background()

	p, err := c.CreateProject(ctx, models.Project{Title: "P"})
	require.NoError(t, err)
	_, err = c.Projects(ctx)
	require.NoError(t, err)

	require.NoError(t, c.DeleteProject(ctx, p.ID))

	got, err := c.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_FailedMutationKeepsCache(t *testing.T) {
	backend := newFakeBackend()
	c := NewClient(backend, time.Minute, nil)
	ctx := context.Background()

	_, err := c.Projects(ctx)
	require.NoError(t, err)

	// id 999 does not exist; the backend rejects the update.
	_, err = c.UpdateProject(ctx, 999, models.Project{Title: "X"})
	require.Error(t, err)

	_, err = c.Projects(ctx)
	require.NoError(t, err)
	_, fetches, _ := backend.counts()
	assert.Equal(t, 1, fetches, "a failed mutation must not invalidate")
}

func TestClient_ProfileUpdateInvalidatesProfile(t *testing.T) {
	backend := newFakeBackend()
	c := NewClient(backend, time.Minute, nil)
	ctx := context.Background()

	u, err := c.Profile(ctx)
	require.NoError(t, err)

	u.Bio = "Building things"
	_, err = c.UpdateProfile(ctx, u)
	require.NoError(t, err)

	got, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Building things", got.Bio)
	assert.Greater(t, got.Version, u.Version-1)
}
