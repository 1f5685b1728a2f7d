// ABOUTME: Session store adapter over a durable key/value backend (SQLite)
// ABOUTME: Keeps the credential as a single row named "jwt"

package session

import (
	"context"
	"log/slog"
)

// KV is the subset of a key/value backend the adapter needs.
// A missing key is reported as ok=false with a nil error.
type KV interface {
	GetValue(ctx context.Context, name string) (value string, ok bool, err error)
	SetValue(ctx context.Context, name, value string) error
	DeleteValue(ctx context.Context, name string) error
}

// KVStore adapts a KV backend to the Store interface.
type KVStore struct {
	kv     KV
	logger *slog.Logger
}

// NewKVStore creates a store that persists the credential under Key.
func NewKVStore(kv KV) *KVStore {
	return &KVStore{
		kv:     kv,
		logger: slog.Default().With("component", "session"),
	}
}

// Get reads the credential row. Backend errors are logged and reported as absent.
func (s *KVStore) Get() (Credential, bool) {
	value, ok, err := s.kv.GetValue(context.Background(), Key)
	if err != nil {
		s.logger.Error("failed to read credential", "error", err)
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}
	return Credential(value), true
}

// Set replaces the credential row.
func (s *KVStore) Set(cred Credential) error {
	if cred == "" {
		return ErrEmptyCredential
	}
	return s.kv.SetValue(context.Background(), Key, string(cred))
}

// Clear deletes the credential row.
func (s *KVStore) Clear() error {
	return s.kv.DeleteValue(context.Background(), Key)
}
