package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/clubhouse/backend/internal/auth"
	"github.com/ayush/clubhouse/backend/internal/board"
	"github.com/ayush/clubhouse/backend/internal/config"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/middleware"
	"github.com/ayush/clubhouse/backend/internal/password"
	"github.com/ayush/clubhouse/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewJSON(os.Stderr, "error").Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}
	log := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fatal := func(msg string, err error) {
		log.Error(ctx, msg, "error", err)
		os.Exit(1)
	}

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, db, err := store.OpenPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		fatal("postgres connect", err)
	}
	defer pgPool.Close()
	defer db.Close()
	if err := store.Migrate(ctx, db); err != nil {
		fatal("postgres migrate", err)
	}
	pgStore := store.NewPostgresStore(db)

	// ── Sessions ──────────────────────────────────────────────
	sessionStore, closeSessions, err := openSessionStore(ctx, cfg, db)
	if err != nil {
		fatal("session store", err)
	}
	defer closeSessions()

	// ── Messages ──────────────────────────────────────────────
	messageStore, closeMessages, err := openMessageStore(ctx, cfg, pgStore)
	if err != nil {
		fatal("message store", err)
	}
	defer closeMessages()

	// ── Services ──────────────────────────────────────────────
	sessions := auth.NewSessionManager(sessionStore, pgStore, cfg.SessionTTL, cfg.SessionPruneInterval, log)
	cookies := auth.NewCookieCodec(cfg.SessionSecret, cfg.CookieSecure, cfg.SessionTTL)
	authenticator := auth.NewAuthenticator(pgStore, password.New(cfg.BcryptCost), log)
	boardSvc := board.NewService(messageStore, pgStore, board.Secrets{
		Membership: cfg.MembershipSecret,
		Admin:      cfg.AdminSecret,
	}, log)

	pruneCtx, stopPruner := context.WithCancel(ctx)
	defer stopPruner()
	go sessions.RunPruner(pruneCtx)

	handler := newRouter(routes{
		auth:     auth.NewHandler(authenticator, sessions, cookies, log),
		board:    board.NewHandler(boardSvc, log),
		sessions: middleware.NewSessions(sessions, cookies, log),
		origins:  cfg.CORSOrigins,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info(ctx, "server listening", "port", cfg.Port,
			"sessions", cfg.SessionBackend, "messages", cfg.MessageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")
	stopPruner()
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error(shutCtx, "shutdown", "error", err)
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config, db *sql.DB) (auth.SessionStore, func(), error) {
	if cfg.SessionBackend != config.BackendRedis {
		return store.NewPostgresSessionStore(db), func() {}, nil
	}
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	return store.NewRedisSessionStore(rdb), func() { rdb.Close() }, nil
}

func openMessageStore(ctx context.Context, cfg *config.Config, pg *store.PostgresStore) (board.MessageStore, func(), error) {
	if cfg.MessageBackend != config.BackendMongo {
		return pg, func() {}, nil
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { client.Disconnect(context.Background()) }
	if err := client.Ping(ctx, nil); err != nil {
		closeFn()
		return nil, nil, err
	}
	ms := store.NewMongoMessageStore(client.Database(cfg.MongoDB))
	if err := ms.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return ms, closeFn, nil
}
