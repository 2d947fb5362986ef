package board

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/clubhouse/backend/internal/apperror"
	"github.com/ayush/clubhouse/backend/internal/httpx"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/models"
)

// Handler exposes the board over HTTP. Every method receives the principal
// resolved for the request.
type Handler struct {
	svc *Service
	log logging.Logger
}

func NewHandler(svc *Service, log logging.Logger) *Handler {
	return &Handler{svc: svc, log: log.With("module", "board")}
}

// List handles GET /api/messages?limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, p models.Principal) {
	page, err := parsePage(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	msgs, err := h.svc.List(r.Context(), p, page)
	if err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, msgs)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, p models.Principal) {
	var req models.CreateMessageRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	m, err := h.svc.Create(r.Context(), p, req.Content)
	if err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, p models.Principal) {
	if err := h.svc.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Join handles POST /api/club/join.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request, p models.Principal) {
	h.grant(w, r, p, h.svc.GrantMembership)
}

// Admin handles POST /api/club/admin.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request, p models.Principal) {
	h.grant(w, r, p, h.svc.GrantAdmin)
}

type grantFunc func(ctx context.Context, p models.Principal, supplied string) (models.Principal, error)

func (h *Handler) grant(w http.ResponseWriter, r *http.Request, p models.Principal, fn grantFunc) {
	var req models.SecretRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	updated, err := fn(r.Context(), p, req.Secret)
	if err != nil {
		httpx.WriteError(r.Context(), w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func parsePage(r *http.Request) (models.Page, error) {
	var page models.Page
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *int
	}{{"limit", &page.Limit}, {"offset", &page.Offset}} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page, apperror.NewBadRequestError(f.name+" must be a non-negative integer", err)
		}
		*f.dst = n
	}
	return page, nil
}
