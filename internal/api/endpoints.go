// ABOUTME: One typed method per assistant backend endpoint
// ABOUTME: Path parameters are escaped; all auth goes through the client interceptor

package api

import (
	"context"
	"net/http"
	"net/url"
)

// Endpoint paths relative to the client's base URL.
const (
	PathAuthToken      = "/auth/token"
	PathTrain          = "/train"
	PathLogs           = "/logs/"
	PathFallbacks      = "/fallbacks"
	PathSession        = "/session/"
	PathFallbackSource = "/admin/fallback-source/"
	PathGenerateReply  = "/chat/generate-reply"
)

// Login exchanges username/password for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	req := LoginRequest{Username: username, Password: password}
	if err := c.Do(ctx, http.MethodPost, PathAuthToken, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Train triggers a model training run.
func (c *Client) Train(ctx context.Context) (*TrainResult, error) {
	var resp TrainResult
	if err := c.Do(ctx, http.MethodPost, PathTrain, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logs returns the log records kept for userID.
func (c *Client) Logs(ctx context.Context, userID string) ([]LogRecord, error) {
	var resp []LogRecord
	if err := c.Do(ctx, http.MethodGet, PathLogs+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Fallbacks returns recorded fallback events in arrival order.
func (c *Client) Fallbacks(ctx context.Context) ([]FallbackEvent, error) {
	var resp []FallbackEvent
	if err := c.Do(ctx, http.MethodGet, PathFallbacks, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Session returns the session context kept for userID.
func (c *Client) Session(ctx context.Context, userID string) (*SessionContext, error) {
	var resp SessionContext
	if err := c.Do(ctx, http.MethodGet, PathSession+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FallbackSource returns the engine that last answered userID.
func (c *Client) FallbackSource(ctx context.Context, userID string) (*FallbackSource, error) {
	var resp FallbackSource
	if err := c.Do(ctx, http.MethodGet, PathFallbackSource+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateReply asks the backend to answer message on behalf of userID.
func (c *Client) GenerateReply(ctx context.Context, req ReplyRequest) (*ReplyResponse, error) {
	var resp ReplyResponse
	if err := c.Do(ctx, http.MethodPost, PathGenerateReply, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
