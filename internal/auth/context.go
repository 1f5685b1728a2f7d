// ABOUTME: Request context carrier for the per-request session store
// ABOUTME: Lets handlers reuse the store the auth middleware consulted

package auth

import (
	"context"

	"github.com/2389/assist-console/internal/session"
)

// storeContextKey is the key type for storing a session.Store in context.Context.
type storeContextKey struct{}

// WithStore returns a new context with store attached.
func WithStore(ctx context.Context, store session.Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// StoreFromContext retrieves the store from the context, returning nil if not present.
func StoreFromContext(ctx context.Context) session.Store {
	val := ctx.Value(storeContextKey{})
	if val == nil {
		return nil
	}
	store, ok := val.(session.Store)
	if !ok {
		return nil
	}
	return store
}
