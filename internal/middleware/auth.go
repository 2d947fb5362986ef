package middleware

import (
	"net/http"

	"github.com/ayush/clubhouse/backend/internal/auth"
	"github.com/ayush/clubhouse/backend/internal/guard"
	"github.com/ayush/clubhouse/backend/internal/httpx"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/models"
)

// PrincipalHandlerFunc is an HTTP handler that is given the caller's principal.
type PrincipalHandlerFunc func(w http.ResponseWriter, r *http.Request, p models.Principal)

// Sessions resolves the session cookie once per request and hands the
// principal to the wrapped handler.
type Sessions struct {
	sessions *auth.SessionManager
	cookies  *auth.CookieCodec
	log      logging.Logger
}

func NewSessions(sessions *auth.SessionManager, cookies *auth.CookieCodec, log logging.Logger) *Sessions {
	return &Sessions{sessions: sessions, cookies: cookies, log: log.With("module", "middleware")}
}

// WithPrincipal adapts next to a plain handler. A live session has its cookie
// re-issued so the browser-side expiry rolls with the server-side one.
func (s *Sessions) WithPrincipal(next PrincipalHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.cookies.Read(r)
		p, live := s.sessions.Resolve(r.Context(), token)
		if live {
			if err := s.cookies.Write(w, token); err != nil {
				s.log.Warn(r.Context(), "session cookie refresh failed", "error", err)
			}
		}
		next(w, r, p)
	}
}

// RequireAuth is WithPrincipal that rejects anonymous callers before next runs.
func (s *Sessions) RequireAuth(next PrincipalHandlerFunc) http.HandlerFunc {
	return s.WithPrincipal(func(w http.ResponseWriter, r *http.Request, p models.Principal) {
		if err := guard.RequireAuthenticated(p); err != nil {
			httpx.WriteError(r.Context(), w, s.log, err)
			return
		}
		next(w, r, p)
	})
}
