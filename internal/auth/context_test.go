// ABOUTME: Tests for the request context store carrier
// ABOUTME: Verifies round-trip and absent values

package auth

import (
	"context"
	"testing"

	"github.com/2389/assist-console/internal/session"
)

func TestStoreFromContext(t *testing.T) {
	if got := StoreFromContext(context.Background()); got != nil {
		t.Errorf("StoreFromContext() = %v, want nil", got)
	}

	store := session.NewMemoryStore()
	ctx := WithStore(context.Background(), store)
	if got := StoreFromContext(ctx); got != store {
		t.Errorf("StoreFromContext() = %v, want %v", got, store)
	}
}
