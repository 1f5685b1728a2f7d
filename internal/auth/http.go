// ABOUTME: HTTP middleware that enforces the gate on every navigation
// ABOUTME: Redirects unauthenticated browsers to the login view

package auth

import (
	"net/http"

	"github.com/2389/assist-console/internal/session"
)

// StoreFunc returns the session store for one request.
type StoreFunc func(w http.ResponseWriter, r *http.Request) session.Store

// RequireAuth creates an HTTP middleware that derives a gate from the request's
// store and redirects to LoginView when it is closed. The store is attached to
// the request context for downstream handlers.
func RequireAuth(storeFor StoreFunc, opts ...GateOption) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := storeFor(w, r)
			gate := NewGate(store, opts...)

			if to, ok := gate.Allow(r.URL.Path); !ok {
				// htmx requests need a header redirect instead of a swapped body
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", to)
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, to, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), store)))
		})
	}
}
