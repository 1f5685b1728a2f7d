// ABOUTME: Admin web UI for the assistant backend
// ABOUTME: Login against the backend, gated dashboard views, and routing

package webadmin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/auth"
	"github.com/2389/assist-console/internal/chat"
	"github.com/2389/assist-console/internal/dashboard"
	"github.com/2389/assist-console/internal/dedupe"
	"github.com/2389/assist-console/internal/session"
	"github.com/2389/assist-console/internal/store"
)

const (
	// CSRFCookieName is the name of the CSRF token cookie
	CSRFCookieName = "assist_csrf"

	// ConversationCookieName identifies the browser's chat conversation
	ConversationCookieName = "assist_chat"

	// ConversationDuration is how long the conversation cookie lasts
	ConversationDuration = 30 * 24 * time.Hour
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const csrfContextKey contextKey = "csrf_token"

// Config holds admin UI configuration
type Config struct {
	// CheckExpiry makes the gate treat an expired token as absent
	CheckExpiry bool

	ChatUserID   string
	AutoReply    bool
	HistoryLimit int
}

// History persists and restores chat transcripts.
type History interface {
	chat.Recorder
	ListChatMessages(ctx context.Context, conversationID string, limit int) ([]*store.ChatMessage, error)
}

// Admin handles admin UI routes and authentication
type Admin struct {
	client  *api.Client
	views   *dashboard.Views
	trainer *dashboard.Trainer
	chatHub *chatHub
	config  Config
	logger  *slog.Logger

	// submissions drops chat forms posted twice
	submissions *dedupe.Window
}

// New creates a new Admin handler. client talks to the dashboard endpoints
// and is bound to each browser's credential per request. chatClient answers
// the chat widget. history may be nil.
func New(client *api.Client, chatClient chat.Replier, history History, cfg Config) *Admin {
	backend := requestBackend{client: client}
	a := &Admin{
		client:  client,
		views:   dashboard.NewViews(backend),
		trainer: dashboard.NewTrainer(backend),
		config:  cfg,
		logger:  slog.Default().With("component", "admin"),

		submissions: dedupe.New(submissionWindow, submissionCapacity),
	}
	a.chatHub = newChatHub(a.newExchangeFactory(chatClient, history))
	return a
}

// Close cleans up admin resources
func (a *Admin) Close() {
	if a.chatHub != nil {
		a.chatHub.Close()
	}
}

// Routes returns the admin router.
func (a *Admin) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)

	// Public routes (no auth required)
	r.Get("/healthz", a.handleHealth)
	r.Get(auth.LoginView, a.handleLoginPage)
	r.Post(auth.LoginView, a.handleLogin)
	r.Post("/logout", a.handleLogout)

	// The chat widget never needs the admin credential
	r.Get("/chat", a.handleChatPage)
	r.Post("/chat/send", a.handleChatSend)
	r.Get("/chat/transcript", a.handleChatTranscript)

	// Protected routes (auth required)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.cookieStore, auth.WithExpiryCheck(a.config.CheckExpiry)))

		r.Get(auth.DefaultView, a.handleDashboard)
		r.Get("/views/logs", a.handleLogsView)
		r.Get("/views/session", a.handleSessionView)
		r.Get("/views/fallbacks", a.handleFallbacksView)
		r.Get("/views/fallback-source", a.handleFallbackSourceView)
		r.Post("/train", a.handleTrain)
		r.Get("/train/status", a.handleTrainStatus)
	})

	return r
}

// cookieStore returns the browser's credential store.
func (a *Admin) cookieStore(w http.ResponseWriter, r *http.Request) session.Store {
	return session.NewCookieStore(w, r, "/")
}

// requestLogger logs each request once it completes.
func (a *Admin) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (a *Admin) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// ensureCSRFToken ensures a CSRF token exists and returns it
func (a *Admin) ensureCSRFToken(w http.ResponseWriter, r *http.Request) (*http.Request, string) {
	// Try to get existing token from cookie
	cookie, err := r.Cookie(CSRFCookieName)
	if err == nil && cookie.Value != "" {
		ctx := context.WithValue(r.Context(), csrfContextKey, cookie.Value)
		return r.WithContext(ctx), cookie.Value
	}

	// Generate new token
	token, err := generateSecureToken(32)
	if err != nil {
		a.logger.Error("failed to generate CSRF token", "error", err)
		token = "" // Will fail validation, but won't crash
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	ctx := context.WithValue(r.Context(), csrfContextKey, token)
	return r.WithContext(ctx), token
}

// validateCSRF checks the form or header token against the cookie
func (a *Admin) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	formToken := r.FormValue("csrf_token")
	if formToken == "" {
		// Also check header for htmx requests
		formToken = r.Header.Get("X-CSRF-Token")
	}

	return formToken != "" && formToken == cookie.Value
}

// handleLoginPage shows the login form
func (a *Admin) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, redirect to dashboard
	gate := auth.NewGate(a.cookieStore(w, r), auth.WithExpiryCheck(a.config.CheckExpiry))
	if gate.Authenticated() {
		http.Redirect(w, r, auth.DefaultView, http.StatusSeeOther)
		return
	}

	_, csrfToken := a.ensureCSRFToken(w, r)
	a.renderLoginPage(w, "", "", csrfToken)
}

// handleLogin exchanges the submitted credentials for a backend token
func (a *Admin) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		_, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, "Invalid form data", "", csrfToken)
		return
	}

	if !a.validateCSRF(r) {
		_, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, "Invalid request, please try again", "", csrfToken)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		_, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, auth.ErrLoginFailed.Error(), username, csrfToken)
		return
	}

	creds := a.cookieStore(w, r)
	gate := auth.NewGate(creds)
	// The token endpoint is unauthenticated; a stale cookie must not ride along.
	flow := auth.NewLoginFlow(a.client.WithStore(nil), creds, gate)

	next, err := flow.Login(r.Context(), username, password)
	if err != nil {
		_, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, err.Error(), username, csrfToken)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleLogout clears the browser's credential
func (a *Admin) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err == nil {
		// Validate CSRF - but don't block logout if invalid
		if !a.validateCSRF(r) {
			a.logger.Warn("logout request with invalid CSRF token")
		}
	}

	creds := a.cookieStore(w, r)
	if err := auth.NewLoginFlow(a.client, creds, nil).Logout(); err != nil {
		a.logger.Error("failed to clear credential", "error", err)
	}

	http.Redirect(w, r, auth.LoginView, http.StatusSeeOther)
}

// handleDashboard renders the main dashboard
func (a *Admin) handleDashboard(w http.ResponseWriter, r *http.Request) {
	_, csrfToken := a.ensureCSRFToken(w, r)
	a.renderDashboard(w, csrfToken, a.trainer.Snapshot())
}

// generateSecureToken generates a random hex token
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
