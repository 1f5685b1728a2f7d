// ABOUTME: Dashboard view handlers returning htmx partials
// ABOUTME: Logs, session, fallbacks, fallback source and the training trigger

package webadmin

import (
	"errors"
	"net/http"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/dashboard"
)

// handleLogsView renders the logs table for one user
func (a *Admin) handleLogsView(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	logs, err := a.views.Logs(r.Context(), userID)
	if errors.Is(err, dashboard.ErrUserIDRequired) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		a.viewFailed(w, "logs", "Could not load logs.", err)
		return
	}

	a.renderPartial(w, "logs", logsData{UserID: userID, Logs: logs})
}

// handleSessionView renders the session context for one user
func (a *Admin) handleSessionView(w http.ResponseWriter, r *http.Request) {
	sc, err := a.views.Session(r.Context(), r.URL.Query().Get("user_id"))
	if errors.Is(err, dashboard.ErrUserIDRequired) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		a.viewFailed(w, "session", "Could not load session context.", err)
		return
	}

	a.renderPartial(w, "session", sessionData{Session: sc})
}

// handleFallbacksView renders every fallback event
func (a *Admin) handleFallbacksView(w http.ResponseWriter, r *http.Request) {
	events, err := a.views.Fallbacks(r.Context())
	if err != nil {
		a.viewFailed(w, "fallbacks", "Could not load fallback events.", err)
		return
	}

	a.renderPartial(w, "fallbacks", fallbacksData{Events: events})
}

// handleFallbackSourceView renders the engine tag for one user
func (a *Admin) handleFallbackSourceView(w http.ResponseWriter, r *http.Request) {
	tag, err := a.views.FallbackSource(r.Context(), r.URL.Query().Get("user_id"))
	if errors.Is(err, dashboard.ErrUserIDRequired) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		a.logger.Warn("fallback source lookup failed", "error", err)
	}

	a.renderPartial(w, "fallback_source", tag)
}

// handleTrain starts a training run unless one is already in flight
func (a *Admin) handleTrain(w http.ResponseWriter, r *http.Request) {
	if !a.validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	if err := a.trainer.Start(detachStore(r.Context())); err != nil {
		// Control is disabled while in flight; a repeat is a no-op
		a.logger.Debug("training trigger ignored", "error", err)
	}

	a.renderPartial(w, "train_status", a.trainer.Snapshot())
}

// handleTrainStatus renders the current training status
func (a *Admin) handleTrainStatus(w http.ResponseWriter, r *http.Request) {
	a.renderPartial(w, "train_status", a.trainer.Snapshot())
}

// viewFailed logs the failure and renders a fixed message. A 401 from the
// backend sends the browser back to the login view.
func (a *Admin) viewFailed(w http.ResponseWriter, view, message string, err error) {
	a.logger.Warn("dashboard view failed", "view", view, "error", err)
	if api.StatusCode(err) == http.StatusUnauthorized {
		message = "Your session was rejected by the backend. Log out and sign in again."
	}
	a.renderPartial(w, "error", message)
}
