// ABOUTME: Login flow exchanging credentials for a bearer token
// ABOUTME: Stores the token verbatim, opens the gate, and hides backend details

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/session"
)

// ErrLoginFailed is the only login error a user sees.
var ErrLoginFailed = errors.New("Login failed. Please check your credentials.")

// TokenIssuer exchanges a username and password for an access token.
type TokenIssuer interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
}

// LoginFlow drives a login attempt against the backend.
type LoginFlow struct {
	issuer TokenIssuer
	store  session.Store
	gate   *Gate
	logger *slog.Logger
}

// NewLoginFlow creates a login flow writing into store and opening gate.
func NewLoginFlow(issuer TokenIssuer, store session.Store, gate *Gate) *LoginFlow {
	return &LoginFlow{
		issuer: issuer,
		store:  store,
		gate:   gate,
		logger: slog.Default().With("component", "auth"),
	}
}

// Login submits the credentials. On success the token is stored verbatim, the
// gate opens, and the default protected view is returned. On any failure the
// store is left untouched and ErrLoginFailed is returned.
func (f *LoginFlow) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := f.issuer.Login(ctx, username, password)
	if err != nil {
		f.logger.Warn("login rejected", "username", username, "error", err)
		return "", ErrLoginFailed
	}
	if resp.AccessToken == "" {
		f.logger.Warn("login response carried no access token", "username", username)
		return "", ErrLoginFailed
	}

	if err := f.store.Set(session.Credential(resp.AccessToken)); err != nil {
		f.logger.Error("failed to store credential", "error", err)
		return "", ErrLoginFailed
	}
	if f.gate != nil {
		f.gate.Authenticate()
	}

	f.logger.Info("login succeeded", "username", username)
	return DefaultView, nil
}

// Logout clears the stored credential.
func (f *LoginFlow) Logout() error {
	if err := f.store.Clear(); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	f.logger.Info("logged out")
	return nil
}
