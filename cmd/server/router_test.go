package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/clubhouse/backend/internal/auth"
	"github.com/ayush/clubhouse/backend/internal/board"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/middleware"
	"github.com/ayush/clubhouse/backend/internal/models"
	"github.com/ayush/clubhouse/backend/internal/password"
	"github.com/ayush/clubhouse/backend/internal/store/memstore"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T) (*client, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	log := logging.Discard()

	sessions := auth.NewSessionManager(st, st, 2*time.Minute, time.Minute, log)
	cookies := auth.NewCookieCodec("router-test-secret", false, 2*time.Minute)
	authenticator := auth.NewAuthenticator(st, password.New(bcrypt.MinCost), log)
	svc := board.NewService(st, st, board.Secrets{Membership: "letmein", Admin: "sudo"}, log)

	srv := httptest.NewServer(newRouter(routes{
		auth:     auth.NewHandler(authenticator, sessions, cookies, log),
		board:    board.NewHandler(svc, log),
		sessions: middleware.NewSessions(sessions, cookies, log),
		origins:  []string{"http://localhost:5173"},
	}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}, st
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	c, _ := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAliceScenario(t *testing.T) {
	c, st := newTestServer(t)

	var user models.User
	status := c.do(http.MethodPost, "/api/auth/sign-up",
		map[string]string{"username": "alice", "password": "secret1", "confirm_password": "secret1"}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.NonMember, user.MembershipStatus)
	assert.False(t, user.IsAdmin)

	var errBody map[string]string
	status = c.do(http.MethodPost, "/api/auth/log-in", map[string]string{"username": "alice", "password": "wrong"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "bad password", errBody["error"])

	var p models.Principal
	require.Equal(t, http.StatusOK,
		c.do(http.MethodPost, "/api/auth/log-in", map[string]string{"username": "alice", "password": "secret1"}, &p))
	assert.Equal(t, user.ID, p.ID)

	var msg models.Message
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/messages", map[string]string{"content": "hello"}, &msg))
	assert.Equal(t, user.ID, msg.AuthorID)

	var views []models.MessageView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/messages", nil, &views))
	require.NotEmpty(t, views)
	assert.Equal(t, "hello", views[0].Content)
	assert.Empty(t, views[0].Author)

	errBody = nil
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/club/join", map[string]string{"secret": "nope"}, &errBody))
	u, err := st.FindUserByID(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NonMember, u.MembershipStatus)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/club/join", map[string]string{"secret": "letmein"}, &p))
	assert.Equal(t, models.Member, p.MembershipStatus)

	views = nil
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/messages", nil, &views))
	assert.Equal(t, "alice", views[0].Author)

	errBody = nil
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, "/api/messages/"+msg.ID, nil, &errBody))
	assert.Equal(t, "admins only", errBody["error"])
	assert.Equal(t, 1, st.MessageCount())

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/club/admin", map[string]string{"secret": "sudo"}, &p))
	assert.True(t, p.IsAdmin)
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/messages/"+msg.ID, nil, nil))
	assert.Zero(t, st.MessageCount())

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/auth/log-out", nil, nil))
	var me map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/auth/me", nil, &me))
	assert.Equal(t, false, me["authenticated"])
}

func TestUnknownUserGetsSignUpHint(t *testing.T) {
	c, _ := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusUnauthorized,
		c.do(http.MethodPost, "/api/auth/log-in", map[string]string{"username": "ghost", "password": "x"}, &body))
	assert.Equal(t, "/sign-up", body["redirect"])
}

func TestAnonymousCannotPost(t *testing.T) {
	c, st := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/messages", map[string]string{"content": "hi"}, &body))
	assert.Equal(t, "must log in", body["error"])
	assert.Zero(t, st.MessageCount())
}
