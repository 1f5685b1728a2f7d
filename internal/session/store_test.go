// ABOUTME: Tests for the session store backends
// ABOUTME: Covers persistence across instances, atomic replace, clear and cookie round-trips

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get()
	assert.False(t, ok)

	require.NoError(t, s.Set("token-1"))
	cred, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, Credential("token-1"), cred)

	require.NoError(t, s.Set("token-2"))
	cred, _ = s.Get()
	assert.Equal(t, Credential("token-2"), cred)

	require.NoError(t, s.Clear())
	_, ok = s.Get()
	assert.False(t, ok)
}

func TestMemoryStore_RejectsEmpty(t *testing.T) {
	s := NewMemoryStore()
	assert.ErrorIs(t, s.Set(""), ErrEmptyCredential)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	first := NewFileStore(dir)
	require.NoError(t, first.Set("eyJhbGciOi.abc.def"))

	// A fresh instance over the same directory behaves like a page reload.
	second := NewFileStore(dir)
	cred, ok := second.Get()
	require.True(t, ok)
	assert.Equal(t, Credential("eyJhbGciOi.abc.def"), cred)

	info, err := os.Stat(second.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Equal(t, Key, filepath.Base(second.Path()))
}

func TestFileStore_OverwriteAndClear(t *testing.T) {
	s := NewFileStore(t.TempDir())

	require.NoError(t, s.Set("old"))
	require.NoError(t, s.Set("new"))

	cred, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, Credential("new"), cred)

	require.NoError(t, s.Clear())
	_, ok = s.Get()
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, s.Clear())

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "does", "not", "exist"))
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestDefaultDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "assist-console"), DefaultDir())
}

// mapKV is an in-memory KV used to exercise the adapter.
type mapKV struct {
	values map[string]string
	err    error
}

func (m *mapKV) GetValue(_ context.Context, name string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[name]
	return v, ok, nil
}

func (m *mapKV) SetValue(_ context.Context, name, value string) error {
	m.values[name] = value
	return nil
}

func (m *mapKV) DeleteValue(_ context.Context, name string) error {
	delete(m.values, name)
	return nil
}

func TestKVStore_UsesFixedKey(t *testing.T) {
	kv := &mapKV{values: map[string]string{}}
	s := NewKVStore(kv)

	require.NoError(t, s.Set("abc"))
	assert.Equal(t, "abc", kv.values["jwt"])

	cred, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, Credential("abc"), cred)

	require.NoError(t, s.Clear())
	_, ok = s.Get()
	assert.False(t, ok)
}

func TestKVStore_BackendErrorIsAbsent(t *testing.T) {
	s := NewKVStore(&mapKV{values: map[string]string{}, err: errors.New("disk on fire")})
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestCookieStore_ReadsRequestCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Key, Value: "from-browser"})
	rec := httptest.NewRecorder()

	s := NewCookieStore(rec, req, "/")
	cred, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, Credential("from-browser"), cred)
}

func TestCookieStore_SetWritesCookieAndShadowsRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()

	s := NewCookieStore(rec, req, "/")
	require.NoError(t, s.Set("fresh"))

	cred, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, Credential("fresh"), cred)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, Key, cookies[0].Name)
	assert.Equal(t, "fresh", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCookieStore_ClearExpiresCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: Key, Value: "stale"})
	rec := httptest.NewRecorder()

	s := NewCookieStore(rec, req, "/")
	require.NoError(t, s.Clear())

	_, ok := s.Get()
	assert.False(t, ok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
