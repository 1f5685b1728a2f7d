// ABOUTME: Session store interface and in-memory implementation for the bearer credential
// ABOUTME: Defines the fixed "jwt" key shared by every persistent backend

package session

import (
	"errors"
	"sync"
)

// Key is the fixed name under which every backend persists the credential.
const Key = "jwt"

// ErrEmptyCredential is returned by Set when asked to store an empty token.
var ErrEmptyCredential = errors.New("empty credential")

// Credential is an opaque bearer token.
type Credential string

// Store holds at most one Credential.
type Store interface {
	// Get returns the stored credential and whether one is present.
	Get() (Credential, bool)
	// Set replaces the stored credential.
	Set(cred Credential) error
	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear() error
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	cred Credential
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored credential.
func (s *MemoryStore) Get() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.cred != ""
}

// Set replaces the stored credential.
func (s *MemoryStore) Set(cred Credential) error {
	if cred == "" {
		return ErrEmptyCredential
	}
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return nil
}

// Clear removes the stored credential.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.cred = ""
	s.mu.Unlock()
	return nil
}
