package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const SessionCookie = "clubhouse.sid"

// CookieCodec signs session tokens into an HttpOnly cookie.
type CookieCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
	ttl    time.Duration
}

func NewCookieCodec(secret string, secure bool, ttl time.Duration) *CookieCodec {
	sc := securecookie.New([]byte(secret), nil)
	sc.MaxAge(int(ttl.Seconds()))
	return &CookieCodec{sc: sc, secure: secure, ttl: ttl}
}

// Write sets the session cookie, restarting its max-age.
func (c *CookieCodec) Write(w http.ResponseWriter, token string) error {
	encoded, err := c.sc.Encode(SessionCookie, token)
	if err != nil {
		return err
	}
	http.SetCookie(w, c.cookie(encoded, int(c.ttl.Seconds())))
	return nil
}

func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

// Read returns the session token from the request. A missing or tampered
// cookie yields "".
func (c *CookieCodec) Read(r *http.Request) string {
	ck, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	var token string
	if err := c.sc.Decode(SessionCookie, ck.Value, &token); err != nil {
		return ""
	}
	return token
}

func (c *CookieCodec) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
