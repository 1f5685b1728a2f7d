// ABOUTME: File-backed session store persisting the credential across CLI runs
// ABOUTME: Writes via temp file + rename so readers never observe a partial token

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists the credential in a file named Key inside dir.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on first Set.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultDir returns the state directory used when none is configured.
// Priority: XDG_CONFIG_HOME/assist-console > ~/.config/assist-console
func DefaultDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".assist-console"
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "assist-console")
}

// Path returns the credential file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, Key)
}

// Get reads the credential from disk. A missing or empty file means no credential.
func (s *FileStore) Get() (Credential, bool) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return Credential(token), token != ""
}

// Set atomically replaces the credential file.
func (s *FileStore) Set(cred Credential) error {
	if cred == "" {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, Key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(string(cred)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing credential: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting credential permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing credential file: %w", err)
	}

	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing credential file: %w", err)
	}
	return nil
}

// Clear deletes the credential file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}
