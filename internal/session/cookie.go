// ABOUTME: Cookie-backed session store giving each browser profile its own credential
// ABOUTME: Bound to a single request/response pair; writes are visible to later Gets

package session

import (
	"net/http"
	"sync"
	"time"
)

// CookieMaxAge bounds how long the browser keeps the credential cookie.
// The backend decides whether the token inside is still valid.
const CookieMaxAge = 30 * 24 * time.Hour

// CookieStore reads the credential from the request's "jwt" cookie and writes
// updates as Set-Cookie headers on the response.
type CookieStore struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	r       *http.Request
	path    string
	written bool
	cred    Credential
}

// NewCookieStore binds a store to one request/response pair. path scopes the cookie.
func NewCookieStore(w http.ResponseWriter, r *http.Request, path string) *CookieStore {
	if path == "" {
		path = "/"
	}
	return &CookieStore{w: w, r: r, path: path}
}

// Get returns the credential, preferring a value written during this request.
func (s *CookieStore) Get() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.written {
		return s.cred, s.cred != ""
	}

	cookie, err := s.r.Cookie(Key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return Credential(cookie.Value), true
}

// Set writes the credential cookie.
func (s *CookieStore) Set(cred Credential) error {
	if cred == "" {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	http.SetCookie(s.w, &http.Cookie{
		Name:     Key,
		Value:    string(cred),
		Path:     s.path,
		Expires:  time.Now().Add(CookieMaxAge),
		HttpOnly: true,
		Secure:   s.r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	s.written = true
	s.cred = cred
	return nil
}

// Clear expires the credential cookie.
func (s *CookieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	http.SetCookie(s.w, &http.Cookie{
		Name:     Key,
		Value:    "",
		Path:     s.path,
		MaxAge:   -1,
		HttpOnly: true,
	})
	s.written = true
	s.cred = ""
	return nil
}
