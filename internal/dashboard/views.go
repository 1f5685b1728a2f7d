// ABOUTME: Read-only dashboard views over the backend debug endpoints
// ABOUTME: Logs, fallbacks, session context and fallback source lookups

package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/assist-console/internal/api"
)

// ErrUserIDRequired is returned by per-user views given an empty id.
var ErrUserIDRequired = errors.New("user id is required")

// Backend is the subset of the API client the dashboard calls.
type Backend interface {
	Logs(ctx context.Context, userID string) ([]api.LogRecord, error)
	Fallbacks(ctx context.Context) ([]api.FallbackEvent, error)
	Session(ctx context.Context, userID string) (*api.SessionContext, error)
	FallbackSource(ctx context.Context, userID string) (*api.FallbackSource, error)
	Train(ctx context.Context) (*api.TrainResult, error)
}

// Views runs dashboard lookups against a backend.
type Views struct {
	backend Backend
	logger  *slog.Logger
}

// NewViews creates dashboard views over backend.
func NewViews(backend Backend) *Views {
	return &Views{
		backend: backend,
		logger:  slog.Default().With("component", "dashboard"),
	}
}

// Logs returns the log records kept for userID.
func (v *Views) Logs(ctx context.Context, userID string) ([]api.LogRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	logs, err := v.backend.Logs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching logs for %s: %w", userID, err)
	}
	return logs, nil
}

// Fallbacks returns every recorded fallback event in backend order.
func (v *Views) Fallbacks(ctx context.Context) ([]api.FallbackEvent, error) {
	events, err := v.backend.Fallbacks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching fallbacks: %w", err)
	}
	return events, nil
}

// Session returns the session context kept for userID.
func (v *Views) Session(ctx context.Context, userID string) (*api.SessionContext, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	sc, err := v.backend.Session(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching session for %s: %w", userID, err)
	}
	return sc, nil
}

// FallbackSource looks up the engine that last answered userID. A failed
// lookup still yields a tag (ERROR) alongside the error.
func (v *Views) FallbackSource(ctx context.Context, userID string) (Tag, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Tag{}, ErrUserIDRequired
	}
	src, err := v.backend.FallbackSource(ctx, userID)
	if err != nil {
		return ErrorTag(), fmt.Errorf("fetching fallback source for %s: %w", userID, err)
	}
	tag := SourceTag(src.Source)
	if !tag.Known {
		v.logger.Debug("unrecognized fallback source", "user_id", userID, "source", src.Source)
	}
	return tag, nil
}

// Pretty renders a decoded response as two-space indented JSON. Session
// contexts keep their key order and string values are not HTML-escaped.
func Pretty(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
