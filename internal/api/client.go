// Package api is the REST gateway to the portal backend. It owns request
// and response plumbing: token attachment, request correlation, JSON
// codec, error decoding, and the global unauthorized hook.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/caresync/caresync/internal/log"
)

// TokenSource supplies the current session token for outgoing requests.
// An empty string means no credential is attached.
type TokenSource func() string

// UnauthorizedHandler is invoked when an authenticated request is rejected
// with HTTP 401. It is registered once at construction; see WithUnauthorizedHandler.
type UnauthorizedHandler func()

// Client is the portal API client.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    TokenSource
	onUnauthorized UnauthorizedHandler
	logger         *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout for all requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets the credential attached to outgoing requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithUnauthorizedHandler registers the 401 hook. The handler fires at most
// once per response, only for requests that carried a token, and never for
// the auth flow itself (login, register, MFA verification).
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) {
		c.onUnauthorized = h
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new portal API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requestFlags control per-call interceptor behavior.
type requestFlags struct {
	// authExempt marks auth-flow endpoints whose 401s carry flow semantics
	// (bad credentials, MFA markers) rather than an expired session.
	authExempt bool
}

// do performs an HTTP request and decodes the response into out (ignored
// when out is nil). Non-2xx responses are returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any, flags requestFlags) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	tokenAttached := false
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("x-auth-token", token)
			tokenAttached = true
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeError(resp)
		c.logger.Debug("api request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		if resp.StatusCode == http.StatusUnauthorized && tokenAttached && !flags.authExempt {
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// get is shorthand for an authenticated GET.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, requestFlags{})
}

// post is shorthand for an authenticated POST.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, requestFlags{})
}

// put is shorthand for an authenticated PUT.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, requestFlags{})
}

// delete is shorthand for an authenticated DELETE.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, requestFlags{})
}
