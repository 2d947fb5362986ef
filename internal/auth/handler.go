package auth

import (
	"errors"
	"net/http"

	"github.com/ayush/clubhouse/backend/internal/httpx"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/models"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	auth     *Authenticator
	sessions *SessionManager
	cookies  *CookieCodec
	log      logging.Logger
}

func NewHandler(a *Authenticator, sessions *SessionManager, cookies *CookieCodec, log logging.Logger) *Handler {
	return &Handler{auth: a, sessions: sessions, cookies: cookies, log: log.With("module", "auth")}
}

// SignUp creates a new user.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	user, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, user)
}

// Login authenticates a user and starts a fresh session, discarding any
// session the request already carried.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.LoginRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, h.log, err)
		return
	}

	p, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		redirect := ""
		if errors.Is(err, ErrUserNotFound) {
			redirect = "/sign-up"
		}
		httpx.WriteErrorBody(ctx, w, h.log, err, redirect)
		return
	}

	if err := h.sessions.Destroy(ctx, h.cookies.Read(r)); err != nil {
		h.log.Warn(ctx, "old session destroy failed", "error", err)
	}
	token, err := h.sessions.Create(ctx, p.ID)
	if err != nil {
		httpx.WriteError(ctx, w, h.log, err)
		return
	}
	if err := h.cookies.Write(w, token); err != nil {
		httpx.WriteError(ctx, w, h.log, err)
		return
	}
	h.log.Info(ctx, "user logged in", "user_id", p.ID)
	httpx.WriteJSON(w, http.StatusOK, p)
}

// Logout destroys the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.sessions.Destroy(ctx, h.cookies.Read(r)); err != nil {
		httpx.WriteError(ctx, w, h.log, err)
		return
	}
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	Authenticated bool `json:"authenticated"`
	models.Principal
}

// Me returns the current principal, anonymous included.
func (h *Handler) Me(w http.ResponseWriter, _ *http.Request, p models.Principal) {
	httpx.WriteJSON(w, http.StatusOK, meResponse{Authenticated: p.Authenticated(), Principal: p})
}
