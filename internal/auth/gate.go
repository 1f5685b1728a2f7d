// ABOUTME: Two-state authentication gate derived from the session store
// ABOUTME: Decides whether a view is reachable or redirects to the login view

package auth

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/assist-console/internal/session"
)

// Views the gate knows about.
const (
	LoginView   = "/login"
	DefaultView = "/"
)

// ErrNotAuthenticated is returned by Require when no credential is stored.
var ErrNotAuthenticated = errors.New("not authenticated: run `assist-console login` first")

// State is the authentication state of a Gate.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// GateOption configures a Gate.
type GateOption func(*gateConfig)

type gateConfig struct {
	checkExpiry bool
	now         func() time.Time
}

// WithExpiryCheck makes the initial derivation treat an expired token as absent.
func WithExpiryCheck(enabled bool) GateOption {
	return func(c *gateConfig) { c.checkExpiry = enabled }
}

// withClock overrides the clock used for expiry checks.
func withClock(now func() time.Time) GateOption {
	return func(c *gateConfig) { c.now = now }
}

// Gate guards protected views.
type Gate struct {
	mu    sync.RWMutex
	state State
}

// NewGate derives the initial state from store.
func NewGate(store session.Store, opts ...GateOption) *Gate {
	cfg := gateConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Gate{state: Unauthenticated}
	if store == nil {
		return g
	}

	cred, ok := store.Get()
	if !ok {
		return g
	}

	if cfg.checkExpiry {
		expired, err := TokenExpiredAt(string(cred), cfg.now())
		if err != nil {
			slog.Default().With("component", "auth").Debug("credential is not a readable JWT", "error", err)
		}
		if expired {
			return g
		}
	}

	g.state = Authenticated
	return g
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Authenticated reports whether the gate is open.
func (g *Gate) Authenticated() bool {
	return g.State() == Authenticated
}

// Authenticate moves the gate to Authenticated. It is idempotent.
func (g *Gate) Authenticate() {
	g.mu.Lock()
	g.state = Authenticated
	g.mu.Unlock()
}

// Allow reports whether view may be shown. When it may not, the returned
// string is the view to redirect to.
func (g *Gate) Allow(view string) (string, bool) {
	if view == LoginView || g.Authenticated() {
		return view, true
	}
	return LoginView, false
}

// Require returns ErrNotAuthenticated unless the gate is open.
func (g *Gate) Require() error {
	if !g.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}
