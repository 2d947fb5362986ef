package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieCodec_RoundTrip(t *testing.T) {
	c := NewCookieCodec("test-secret-0123456789abcdef0123", true, 2*time.Minute)

	rec := httptest.NewRecorder()
	require.NoError(t, c.Write(rec, "tok-1"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, SessionCookie, ck.Name)
	assert.NotEqual(t, "tok-1", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, 120, ck.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	assert.Equal(t, "tok-1", c.Read(req))
}

func TestCookieCodec_RejectsTampering(t *testing.T) {
	c := NewCookieCodec("secret-a", false, time.Minute)
	other := NewCookieCodec("secret-b", false, time.Minute)

	rec := httptest.NewRecorder()
	require.NoError(t, other.Write(rec, "tok-1"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	assert.Empty(t, c.Read(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "raw-token"})
	assert.Empty(t, c.Read(req))

	assert.Empty(t, c.Read(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestCookieCodec_Clear(t *testing.T) {
	c := NewCookieCodec("secret", false, time.Minute)

	rec := httptest.NewRecorder()
	c.Clear(rec)

	ck := rec.Result().Cookies()[0]
	assert.Equal(t, SessionCookie, ck.Name)
	assert.Less(t, ck.MaxAge, 0)
}
