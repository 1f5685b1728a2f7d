// ABOUTME: Dashboard backend that binds the API client to each request's credential
// ABOUTME: Reads the session store the auth middleware placed on the context

package webadmin

import (
	"context"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/auth"
	"github.com/2389/assist-console/internal/session"
)

// requestBackend implements dashboard.Backend for many browsers at once.
type requestBackend struct {
	client *api.Client
}

func (b requestBackend) bind(ctx context.Context) *api.Client {
	return b.client.WithStore(auth.StoreFromContext(ctx))
}

func (b requestBackend) Logs(ctx context.Context, userID string) ([]api.LogRecord, error) {
	return b.bind(ctx).Logs(ctx, userID)
}

func (b requestBackend) Fallbacks(ctx context.Context) ([]api.FallbackEvent, error) {
	return b.bind(ctx).Fallbacks(ctx)
}

func (b requestBackend) Session(ctx context.Context, userID string) (*api.SessionContext, error) {
	return b.bind(ctx).Session(ctx, userID)
}

func (b requestBackend) FallbackSource(ctx context.Context, userID string) (*api.FallbackSource, error) {
	return b.bind(ctx).FallbackSource(ctx, userID)
}

func (b requestBackend) Train(ctx context.Context) (*api.TrainResult, error) {
	return b.bind(ctx).Train(ctx)
}

// detachStore copies the request's credential into a memory store so work
// that outlives the request does not touch the response writer.
func detachStore(ctx context.Context) context.Context {
	detached := session.NewMemoryStore()
	if store := auth.StoreFromContext(ctx); store != nil {
		if cred, ok := store.Get(); ok {
			_ = detached.Set(cred)
		}
	}
	return auth.WithStore(context.WithoutCancel(ctx), detached)
}
