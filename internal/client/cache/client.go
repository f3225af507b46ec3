package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ascollins/portfolioctl/internal/client/api"
	"github.com/ascollins/portfolioctl/internal/models"
)

// The API client satisfies Backend; verified at compile time.
var _ Backend = (*api.Client)(nil)

// Backend is the slice of the API client the cache decorates.
type Backend interface {
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, u models.User) (models.User, error)

	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id int64, p models.Project) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	CreateAchievement(ctx context.Context, a models.Achievement) (models.Achievement, error)
	UpdateAchievement(ctx context.Context, id int64, a models.Achievement) (models.Achievement, error)
	DeleteAchievement(ctx context.Context, id int64) error

	Activities(ctx context.Context) ([]models.Activity, error)
	Settings(ctx context.Context) ([]models.SettingsItem, error)
}

// Client decorates a Backend with per-resource caching. It implements the
// decorator pattern, transparently adding caching and invalidation without
// modifying the underlying client. It is the sole writer path of the
// dashboard: mutations go through it so invalidation can never be skipped.
type Client struct {
	backend Backend
	store   *Store
}

// NewClient decorates backend with a resource cache. If ttl is 0 it defaults
// to 30 seconds.
func NewClient(backend Backend, ttl time.Duration, log *zap.Logger) *Client {
	return &Client{
		backend: backend,
		store:   NewStore(ttl, log),
	}
}

// Invalidate drops the cached entry for the given resource key.
func (c *Client) Invalidate(key string) {
	c.store.Invalidate(key)
}

// Profile returns the cached profile, fetching on a miss.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	return getTyped(ctx, c.store, KeyProfile, c.backend.Profile)
}

// UpdateProfile saves the profile and invalidates the profile key.
func (c *Client) UpdateProfile(ctx context.Context, u models.User) (models.User, error) {
	out, err := c.backend.UpdateProfile(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	c.store.Invalidate(KeyProfile)
	return out, nil
}

// Projects returns the cached project list, fetching on a miss.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	return getTyped(ctx, c.store, KeyProjects, c.backend.ListProjects)
}

// CreateProject persists a new project and invalidates the project list.
func (c *Client) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	out, err := c.backend.CreateProject(ctx, p)
	if err != nil {
		return models.Project{}, err
	}
	c.store.Invalidate(KeyProjects)
	return out, nil
}

// UpdateProject saves a project by id and invalidates the project list.
func (c *Client) UpdateProject(ctx context.Context, id int64, p models.Project) (models.Project, error) {
	out, err := c.backend.UpdateProject(ctx, id, p)
	if err != nil {
		return models.Project{}, err
	}
	c.store.Invalidate(KeyProjects)
	return out, nil
}

// DeleteProject removes a project by id and invalidates the project list.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := c.backend.DeleteProject(ctx, id); err != nil {
		return err
	}
	c.store.Invalidate(KeyProjects)
	return nil
}

// Achievements returns the cached achievement list, fetching on a miss.
func (c *Client) Achievements(ctx context.Context) ([]models.Achievement, error) {
	return getTyped(ctx, c.store, KeyAchievements, c.backend.ListAchievements)
}

// CreateAchievement persists a new achievement and invalidates the list.
func (c *Client) CreateAchievement(ctx context.Context, a models.Achievement) (models.Achievement, error) {
	out, err := c.backend.CreateAchievement(ctx, a)
	if err != nil {
		return models.Achievement{}, err
	}
	c.store.Invalidate(KeyAchievements)
	return out, nil
}

// UpdateAchievement saves an achievement by id and invalidates the list.
func (c *Client) UpdateAchievement(ctx context.Context, id int64, a models.Achievement) (models.Achievement, error) {
	out, err := c.backend.UpdateAchievement(ctx, id, a)
	if err != nil {
		return models.Achievement{}, err
	}
	c.store.Invalidate(KeyAchievements)
	return out, nil
}

// DeleteAchievement removes an achievement by id and invalidates the list.
func (c *Client) DeleteAchievement(ctx context.Context, id int64) error {
	if err := c.backend.DeleteAchievement(ctx, id); err != nil {
		return err
	}
	c.store.Invalidate(KeyAchievements)
	return nil
}

// Activities returns the cached activity feed, fetching on a miss.
func (c *Client) Activities(ctx context.Context) ([]models.Activity, error) {
	return getTyped(ctx, c.store, KeyActivities, c.backend.Activities)
}

// Settings returns the cached settings list, fetching on a miss.
func (c *Client) Settings(ctx context.Context) ([]models.SettingsItem, error) {
	return getTyped(ctx, c.store, KeySettings, c.backend.Settings)
}
