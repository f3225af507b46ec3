package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ascollins/portfolioctl/internal/client/session"
	"github.com/ascollins/portfolioctl/internal/models"
)

// Client is the typed HTTP client for the portfolio backend. Every call reads
// the bearer credential from the injected TokenSource at call time, so a
// token refresh or logout takes effect immediately.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  session.TokenSource
	log     *zap.Logger
}

// New constructs a Client.
//
//	baseURL:    backend base URL without trailing slash
//	tokens:     source of the bearer credential
//	httpClient: configured HTTP client (see NewHTTPClient)
//	log:        structured logger; nil disables client logging
func New(baseURL string, tokens session.TokenSource, httpClient *http.Client, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     log,
	}
}

// do executes one authenticated JSON round-trip. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		if errors.Is(err, session.ErrNoToken) {
			return fmt.Errorf("%w: no stored credential", ErrUnauthenticated)
		}
		return fmt.Errorf("read credential: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.log.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if res.StatusCode >= 400 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&envelope)
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
		)
		return newError(res.StatusCode, envelope.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/user/profile", nil, &u)
	return u, err
}

// UpdateProfile replaces the profile and returns the stored version.
func (c *Client) UpdateProfile(ctx context.Context, u models.User) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPut, "/user/profile", u, &out)
	return out, err
}

// ListProjects fetches all projects of the user.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out struct {
		Projects []models.Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/profile/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// CreateProject persists a new project. The returned copy carries the
// backend-assigned ID; the submitted one must have a zero ID.
func (c *Client) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	var out models.Project
	err := c.do(ctx, http.MethodPost, "/user/profile/project", p, &out)
	return out, err
}

// UpdateProject saves changes to the project with the given id. The payload's
// Version is the base version; a stale base yields ErrConflict.
func (c *Client) UpdateProject(ctx context.Context, id int64, p models.Project) (models.Project, error) {
	var out models.Project
	err := c.do(ctx, http.MethodPut, "/user/profile/project/"+strconv.FormatInt(id, 10), p, &out)
	return out, err
}

// DeleteProject removes the project with the given id.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/user/profile/project/"+strconv.FormatInt(id, 10), nil, nil)
}

// ListAchievements fetches all achievements of the user.
func (c *Client) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	var out struct {
		Achievements []models.Achievement `json:"achievements"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/profile/achievements", nil, &out); err != nil {
		return nil, err
	}
	return out.Achievements, nil
}

// CreateAchievement persists a new achievement.
func (c *Client) CreateAchievement(ctx context.Context, a models.Achievement) (models.Achievement, error) {
	var out models.Achievement
	err := c.do(ctx, http.MethodPost, "/user/profile/achievement", a, &out)
	return out, err
}

// UpdateAchievement saves changes to the achievement with the given id.
func (c *Client) UpdateAchievement(ctx context.Context, id int64, a models.Achievement) (models.Achievement, error) {
	var out models.Achievement
	err := c.do(ctx, http.MethodPut, "/user/profile/achievement/"+strconv.FormatInt(id, 10), a, &out)
	return out, err
}

// DeleteAchievement removes the achievement with the given id.
func (c *Client) DeleteAchievement(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/user/profile/achievement/"+strconv.FormatInt(id, 10), nil, nil)
}

// Activities fetches the read-only activity feed.
func (c *Client) Activities(ctx context.Context) ([]models.Activity, error) {
	var out struct {
		Activities []models.Activity `json:"activities"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/profile/activity", nil, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

// Settings fetches the read-only settings list.
func (c *Client) Settings(ctx context.Context) ([]models.SettingsItem, error) {
	var out struct {
		Settings []models.SettingsItem `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/profile/settings", nil, &out); err != nil {
		return nil, err
	}
	return out.Settings, nil
}

// UploadAuth is a short-lived authorization for one direct CDN upload.
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// AuthenticateUpload obtains a short-lived upload authorization. A failure
// here must be surfaced to the user; the media helper never swallows it.
func (c *Client) AuthenticateUpload(ctx context.Context) (UploadAuth, error) {
	var out UploadAuth
	if err := c.do(ctx, http.MethodGet, "/media/authenticate-upload", nil, &out); err != nil {
		return UploadAuth{}, fmt.Errorf("upload authentication failed: %w", err)
	}
	return out, nil
}

// ProvisionSandbox asks the backend for a preview sandbox.
func (c *Client) ProvisionSandbox(ctx context.Context) (models.Sandbox, error) {
	var out models.Sandbox
	err := c.do(ctx, http.MethodPost, "/sandbox", struct{}{}, &out)
	return out, err
}
