// Package client is the Go consumer of the EducaBlog API. It mirrors the
// behavior the web and mobile frontends rely on: bearer token injection, a
// single unauthorized hook for expired sessions, and normalization of the
// API's historical response shapes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://localhost:3000"
	defaultTimeout = 15 * time.Second

	envBaseURL = "EDUCABLOG_API_URL"
)

// Client is a thread-safe HTTP client for the EducaBlog API. The zero value is
// not usable; construct with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	token string

	// onUnauthorized fires when any authenticated call returns 401. Login
	// endpoints never trigger it: a rejected password is not an expired
	// session.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUnauthorizedHook registers the callback invoked on 401 responses from
// non-auth endpoints.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithLogger attaches a logger for request failures. Defaults to a no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. The base URL comes from EDUCABLOG_API_URL when set,
// falling back to the local development server.
func New(opts ...Option) *Client {
	base := os.Getenv(envBaseURL)
	if base == "" {
		base = defaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken stores the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken drops the stored bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently stored bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetUnauthorizedHook registers the callback invoked on 401 responses from
// non-auth endpoints, replacing any previous one.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) unauthorizedHook() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}

// Posts returns the posts service.
func (c *Client) Posts() *PostsService { return &PostsService{client: c} }

// Users returns the users service.
func (c *Client) Users() *UsersService { return &UsersService{client: c} }

// Categories returns the categories service.
func (c *Client) Categories() *CategoriesService { return &CategoriesService{client: c} }

// Auth returns the auth service.
func (c *Client) Auth() *AuthService { return &AuthService{client: c} }

// authPaths never fire the unauthorized hook; a 401 from them means bad
// credentials, not an expired session.
var authPaths = map[string]bool{
	"/login":      true,
	"/register":   true,
	"/auth/login": true,
}

// do issues the request and decodes the JSON response into out (when non-nil).
// Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		apiErr := decodeAPIError(res)
		c.logger.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
		)
		if res.StatusCode == http.StatusUnauthorized && !isAuthPath(path) {
			if hook := c.unauthorizedHook(); hook != nil {
				hook()
			}
		}
		return apiErr
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isAuthPath(path string) bool {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return authPaths[path]
}
