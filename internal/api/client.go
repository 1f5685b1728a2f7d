// ABOUTME: HTTP client for the assistant backend with a uniform bearer interceptor
// ABOUTME: Resolves relative paths against a base URL and decodes JSON responses

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/2389/assist-console/internal/session"
)

// Client issues requests against one backend base URL.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	store      session.Store
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for baseURL that reads credentials from store.
// A nil store means requests never carry a bearer header.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: http.DefaultClient,
		logger:     slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithStore returns a copy of the client bound to another credential store.
func (c *Client) WithStore(store session.Store) *Client {
	clone := *c
	clone.store = store
	return &clone
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends method+path with body encoded as JSON (when non-nil) and decodes the
// response into out (when non-nil). Every failure is a *RequestFailure.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return &RequestFailure{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxFailureBody))
		return &RequestFailure{
			Kind:   KindHTTP,
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   string(data),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestFailure{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestFailure{Kind: KindDecode, Method: method, Path: path, Err: err}
	}
	return nil
}

// authorize is the only place a bearer header is attached.
func (c *Client) authorize(req *http.Request) {
	if c.store == nil {
		return
	}
	if cred, ok := c.store.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+string(cred))
	}
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
