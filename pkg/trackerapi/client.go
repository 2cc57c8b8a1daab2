// Package trackerapi is a raw HTTP client for the project tracker REST API.
package trackerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/projecttracker/tracker/internal/model"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNetwork means the server could not be reached or the request timed out.
	ErrNetwork = errors.New("trackerapi: network error")
	// ErrNotFound means the server answered 404.
	ErrNotFound = errors.New("trackerapi: not found")
	// ErrDecode means the response body did not have the expected shape.
	ErrDecode = errors.New("trackerapi: decode error")
)

// APIError is any other non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("trackerapi: status %d", e.StatusCode)
	}
	return fmt.Sprintf("trackerapi: status %d: %s", e.StatusCode, e.Message)
}

// Client is the set of API calls the offline layer depends on.
type Client interface {
	ListProjects(ctx context.Context) ([]*model.Project, error)
	CreateProject(ctx context.Context, input model.CreateProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, id string, input model.UpdateProjectInput) (*model.Project, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	// Ping calls the health endpoint. Any error means offline.
	Ping(ctx context.Context) error
}

// RealClient talks to the API over HTTP.
type RealClient struct {
	BaseURL    string
	httpClient *http.Client
}

// Option configures a RealClient.
type Option func(*RealClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *RealClient) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RealClient) { c.httpClient = hc }
}

// NewClient creates a RealClient for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *RealClient {
	c := &RealClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RealClient) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

func (c *RealClient) CreateProject(ctx context.Context, input model.CreateProjectInput) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", input, &project); err != nil {
		return nil, err
	}
	if project.ID == "" {
		return nil, fmt.Errorf("%w: created project has no id", ErrDecode)
	}
	return &project, nil
}

func (c *RealClient) UpdateProject(ctx context.Context, id string, input model.UpdateProjectInput) (*model.Project, error) {
	var project model.Project
	path := "/api/projects/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *RealClient) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

func (c *RealClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// do sends body as JSON and decodes a 2xx response into out (if non-nil).
func (c *RealClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("trackerapi: marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("trackerapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: read %s: %v", ErrNetwork, path, err)
		}
		return fmt.Errorf("%w: %s %s: %v", ErrDecode, method, path, err)
	}
	return nil
}
