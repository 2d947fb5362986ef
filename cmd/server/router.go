package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/clubhouse/backend/internal/auth"
	"github.com/ayush/clubhouse/backend/internal/board"
	"github.com/ayush/clubhouse/backend/internal/middleware"
)

type routes struct {
	auth     *auth.Handler
	board    *board.Handler
	sessions *middleware.Sessions
	origins  []string
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mw := rt.sessions
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/sign-up", rt.auth.SignUp)
		r.Post("/log-in", rt.auth.Login)
		r.Post("/log-out", rt.auth.Logout)
		r.Get("/me", mw.WithPrincipal(rt.auth.Me))
	})

	r.Route("/api/messages", func(r chi.Router) {
		r.Get("/", mw.WithPrincipal(rt.board.List))
		r.Post("/", mw.RequireAuth(rt.board.Create))
		r.Delete("/{id}", mw.RequireAuth(rt.board.Delete))
	})

	r.Route("/api/club", func(r chi.Router) {
		r.Post("/join", mw.RequireAuth(rt.board.Join))
		r.Post("/admin", mw.RequireAuth(rt.board.Admin))
	})

	return r
}
