// ABOUTME: Tests for the admin UI routes against a fake assistant backend
// ABOUTME: Covers the gate redirect, login, bearer propagation, views, training and chat

package webadmin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/chat"
	"github.com/2389/assist-console/internal/session"
	"github.com/2389/assist-console/internal/store"
)

// fakeBackend records what the console sent and answers with canned data.
type fakeBackend struct {
	mu        sync.Mutex
	auth      map[string]string // path -> Authorization header
	trainHold chan struct{}
	replyFail bool
}

func (f *fakeBackend) authFor(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth[path]
}

func (f *fakeBackend) called(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.auth[path]
	return ok
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.auth[r.URL.Path] = r.Header.Get("Authorization")
		hold := f.trainHold
		replyFail := f.replyFail
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/debug/auth/token":
			var req api.LoginRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Username != "admin" || req.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Incorrect username or password"}`))
				return
			}
			w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
		case "/debug/fallbacks":
			w.Write([]byte(`[{"user_id":"u1","timestamp":"2026-01-01T00:00:00","intent":"nlu_fallback","message":"what is love","confidence":0.31}]`))
		case "/debug/logs/u1":
			w.Write([]byte(`[{"event":"message","text":"hi"}]`))
		case "/debug/session/u1":
			w.Write([]byte(`{"zeta":1,"alpha":"two"}`))
		case "/debug/admin/fallback-source/u1":
			w.Write([]byte(`{"source":"rasa"}`))
		case "/debug/train":
			if hold != nil {
				<-hold
			}
			w.Write([]byte(`{"status":"success","model":"models/2026.tar.gz"}`))
		case "/chat/generate-reply":
			if replyFail {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"reply":"hi there"}`))
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

type testEnv struct {
	backend *fakeBackend
	admin   *Admin
	server  *httptest.Server
}

func newTestEnv(t *testing.T, history History) *testEnv {
	t.Helper()
	backend := &fakeBackend{auth: map[string]string{}}
	backendSrv := httptest.NewServer(backend.handler(t))
	t.Cleanup(backendSrv.Close)

	client := api.New(backendSrv.URL+"/debug", nil)
	chatClient := api.New(backendSrv.URL, nil)

	admin := New(client, chatClient, history, Config{
		ChatUserID:   chat.DefaultUserID,
		AutoReply:    true,
		HistoryLimit: 50,
	})
	t.Cleanup(admin.Close)

	srv := httptest.NewServer(admin.Routes())
	t.Cleanup(srv.Close)

	return &testEnv{backend: backend, admin: admin, server: srv}
}

// do issues a request with the given cookies and never follows redirects.
func (e *testEnv) do(t *testing.T, method, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var (
	csrfCookie = &http.Cookie{Name: CSRFCookieName, Value: "csrf-test-token"}
	jwtCookie  = &http.Cookie{Name: session.Key, Value: "abc"}
)

func TestProtectedRoutesRedirectWithoutCredential(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/", "/views/fallbacks", "/views/logs?user_id=u1", "/train/status"} {
		resp := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	assert.False(t, env.backend.called("/debug/fallbacks"), "protected content must not be fetched")
}

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, cookieNamed(resp, CSRFCookieName))
	assert.Contains(t, readBody(t, resp), "Admin Login")

	// Already logged in goes to the dashboard
	resp = env.do(t, http.MethodGet, "/login", nil, jwtCookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLogin_SuccessStoresTokenCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{"username": {"admin"}, "password": {"secret"}, "csrf_token": {csrfCookie.Value}}
	resp := env.do(t, http.MethodPost, "/login", form, csrfCookie)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	jwt := cookieNamed(resp, session.Key)
	require.NotNil(t, jwt)
	assert.Equal(t, "abc", jwt.Value)
	assert.True(t, jwt.HttpOnly)

	// The stored token becomes the bearer on later requests
	resp = env.do(t, http.MethodGet, "/views/fallbacks", nil, jwt)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "what is love")
	assert.Equal(t, "Bearer abc", env.backend.authFor("/debug/fallbacks"))
}

func TestLogin_StaleCookieNotSentToTokenEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	stale := &http.Cookie{Name: session.Key, Value: "expired-token"}
	form := url.Values{"username": {"admin"}, "password": {"secret"}, "csrf_token": {csrfCookie.Value}}
	resp := env.do(t, http.MethodPost, "/login", form, csrfCookie, stale)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, env.backend.called("/debug/auth/token"))
	assert.Empty(t, env.backend.authFor("/debug/auth/token"))

	jwt := cookieNamed(resp, session.Key)
	require.NotNil(t, jwt)
	assert.Equal(t, "abc", jwt.Value)
}

func TestLogin_FailureShowsGenericMessage(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{"username": {"admin"}, "password": {"wrong"}, "csrf_token": {csrfCookie.Value}}
	resp := env.do(t, http.MethodPost, "/login", form, csrfCookie)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Login failed. Please check your credentials.")
	assert.NotContains(t, body, "Incorrect username")
	assert.Nil(t, cookieNamed(resp, session.Key))
}

func TestLogin_RejectsMissingCSRF(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{"username": {"admin"}, "password": {"secret"}}
	resp := env.do(t, http.MethodPost, "/login", form)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, cookieNamed(resp, session.Key))
	assert.False(t, env.backend.called("/debug/auth/token"))
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{"csrf_token": {csrfCookie.Value}}
	resp := env.do(t, http.MethodPost, "/logout", form, csrfCookie, jwtCookie)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	cleared := cookieNamed(resp, session.Key)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
}

func TestDashboardViews(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/", nil, jwtCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Trigger RASA Training")

	resp = env.do(t, http.MethodGet, "/views/logs?user_id=u1", nil, jwtCookie)
	body := readBody(t, resp)
	assert.Contains(t, body, "&#34;event&#34;: &#34;message&#34;")
	assert.Equal(t, "Bearer abc", env.backend.authFor("/debug/logs/u1"))

	resp = env.do(t, http.MethodGet, "/views/session?user_id=u1", nil, jwtCookie)
	body = readBody(t, resp)
	assert.Contains(t, body, "Session Context")
	assert.Less(t, strings.Index(body, "zeta"), strings.Index(body, "alpha"))

	resp = env.do(t, http.MethodGet, "/views/fallback-source?user_id=u1", nil, jwtCookie)
	body = readBody(t, resp)
	assert.Contains(t, body, "RASA")
	assert.Contains(t, body, "bg-green-600")
}

func TestDashboardViews_EmptyUserIDMakesNoCall(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/views/logs?user_id=", nil, jwtCookie)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, env.backend.called("/debug/logs/"))
}

func TestTrain_DisabledWhileInFlight(t *testing.T) {
	env := newTestEnv(t, nil)
	hold := make(chan struct{})
	env.backend.mu.Lock()
	env.backend.trainHold = hold
	env.backend.mu.Unlock()

	form := url.Values{"csrf_token": {csrfCookie.Value}}
	resp := env.do(t, http.MethodPost, "/train", form, csrfCookie, jwtCookie)
	body := readBody(t, resp)
	assert.Contains(t, body, "Training...")
	assert.Contains(t, body, "disabled")

	// A second trigger is a no-op
	resp = env.do(t, http.MethodPost, "/train", form, csrfCookie, jwtCookie)
	assert.Contains(t, readBody(t, resp), "Training...")

	close(hold)
	require.Eventually(t, func() bool {
		return !env.admin.trainer.Snapshot().InFlight()
	}, 2*time.Second, 10*time.Millisecond)

	resp = env.do(t, http.MethodGet, "/train/status", nil, jwtCookie)
	body = readBody(t, resp)
	assert.Contains(t, body, "✅ Model trained: models/2026.tar.gz")
	assert.NotContains(t, body, "disabled")
	assert.Equal(t, "Bearer abc", env.backend.authFor("/debug/train"))
}

func TestChat_SendResolvesReply(t *testing.T) {
	db, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := newTestEnv(t, db)

	resp := env.do(t, http.MethodGet, "/chat", nil, csrfCookie)
	conv := cookieNamed(resp, ConversationCookieName)
	require.NotNil(t, conv)

	form := url.Values{"message": {"hello"}, "auto_reply": {"on"}, "csrf_token": {csrfCookie.Value}}
	resp = env.do(t, http.MethodPost, "/chat/send", form, csrfCookie, conv)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "hello")

	require.Eventually(t, func() bool {
		body := readBody(t, env.do(t, http.MethodGet, "/chat/transcript", nil, conv))
		return strings.Contains(body, "hi there") && !strings.Contains(body, "aria-busy")
	}, 2*time.Second, 10*time.Millisecond)

	// The chat endpoint never receives the admin credential
	assert.Empty(t, env.backend.authFor("/chat/generate-reply"))

	// A fresh hub restores the transcript from history
	env.admin.chatHub.cleanupStale(time.Now().Add(time.Hour))
	assert.Equal(t, 0, env.admin.chatHub.len())
	body := readBody(t, env.do(t, http.MethodGet, "/chat", nil, csrfCookie, conv))
	assert.Contains(t, body, "hello")
	assert.Contains(t, body, "hi there")
}

func TestChat_FailureShowsErrorLine(t *testing.T) {
	env := newTestEnv(t, nil)
	env.backend.mu.Lock()
	env.backend.replyFail = true
	env.backend.mu.Unlock()

	resp := env.do(t, http.MethodGet, "/chat", nil, csrfCookie)
	conv := cookieNamed(resp, ConversationCookieName)
	require.NotNil(t, conv)

	form := url.Values{"message": {"hello"}, "auto_reply": {"on"}, "csrf_token": {csrfCookie.Value}}
	env.do(t, http.MethodPost, "/chat/send", form, csrfCookie, conv)

	require.Eventually(t, func() bool {
		body := readBody(t, env.do(t, http.MethodGet, "/chat/transcript", nil, conv))
		return strings.Contains(body, "Could not connect to server.")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChat_AutoReplyOffAndEmptyInput(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/chat", nil, csrfCookie)
	conv := cookieNamed(resp, ConversationCookieName)
	require.NotNil(t, conv)

	// Checkbox unchecked: no auto_reply field
	form := url.Values{"message": {"note to self"}, "csrf_token": {csrfCookie.Value}}
	env.do(t, http.MethodPost, "/chat/send", form, csrfCookie, conv)

	form = url.Values{"message": {"   "}, "csrf_token": {csrfCookie.Value}}
	env.do(t, http.MethodPost, "/chat/send", form, csrfCookie, conv)

	ex := env.admin.chatHub.getOrCreate(t.Context(), conv.Value)
	msgs := ex.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "note to self", msgs[0].Content)
	assert.False(t, env.backend.called("/chat/generate-reply"))
}

func TestChat_DuplicateSubmissionAppliedOnce(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/chat", nil, csrfCookie)
	assert.Contains(t, readBody(t, resp), `name="submission_id"`)
	conv := cookieNamed(resp, ConversationCookieName)
	require.NotNil(t, conv)

	form := url.Values{"message": {"once"}, "submission_id": {"sub-1"}, "csrf_token": {csrfCookie.Value}}
	env.do(t, http.MethodPost, "/chat/send", form, csrfCookie, conv)
	env.do(t, http.MethodPost, "/chat/send", form, csrfCookie, conv)

	form.Set("submission_id", "sub-2")
	env.do(t, http.MethodPost, "/chat/send", form, csrfCookie, conv)

	ex := env.admin.chatHub.getOrCreate(t.Context(), conv.Value)
	assert.Len(t, ex.Messages(), 2)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", readBody(t, resp))
}
