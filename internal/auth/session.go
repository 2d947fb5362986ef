package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/models"
	"github.com/ayush/clubhouse/backend/internal/store"
)

// SessionStore persists sessions by token.
type SessionStore interface {
	Save(ctx context.Context, sess models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Touch(ctx context.Context, token string, expiresAt time.Time) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type UserLookup interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// SessionManager maps opaque tokens to principals. Expiry rolls forward on
// every successful resolve.
type SessionManager struct {
	store      SessionStore
	users      UserLookup
	ttl        time.Duration
	pruneEvery time.Duration
	log        logging.Logger
	now        func() time.Time
}

func NewSessionManager(st SessionStore, users UserLookup, ttl, pruneEvery time.Duration, log logging.Logger) *SessionManager {
	return &SessionManager{
		store:      st,
		users:      users,
		ttl:        ttl,
		pruneEvery: pruneEvery,
		log:        log.With("module", "sessions"),
		now:        time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Create stores a new session for userID ("" for anonymous) and returns its token.
func (m *SessionManager) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	err := m.store.Save(ctx, models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the principal behind token and whether the session is
// live. Unknown, expired or unreadable sessions resolve to anonymous.
func (m *SessionManager) Resolve(ctx context.Context, token string) (models.Principal, bool) {
	if token == "" {
		return models.Anonymous(), false
	}
	sess, err := m.store.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log.Warn(ctx, "session lookup failed", "error", err)
		}
		return models.Anonymous(), false
	}

	now := m.now()
	if !sess.ExpiresAt.After(now) {
		if err := m.store.Delete(ctx, token); err != nil {
			m.log.Warn(ctx, "expired session delete failed", "error", err)
		}
		return models.Anonymous(), false
	}
	if err := m.store.Touch(ctx, token, now.Add(m.ttl)); err != nil {
		m.log.Warn(ctx, "session touch failed", "error", err)
	}

	if sess.UserID == "" {
		return models.Anonymous(), true
	}
	u, err := m.users.FindUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if err := m.store.Delete(ctx, token); err != nil {
				m.log.Warn(ctx, "orphaned session delete failed", "error", err)
			}
		} else {
			m.log.Warn(ctx, "session user lookup failed", "error", err)
		}
		return models.Anonymous(), false
	}
	return models.PrincipalFor(u), true
}

// Destroy removes the session. Unknown tokens are not an error.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// RunPruner deletes expired sessions every pruneEvery until ctx is done.
func (m *SessionManager) RunPruner(ctx context.Context) {
	ticker := time.NewTicker(m.pruneEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.prune(ctx)
		}
	}
}

func (m *SessionManager) prune(ctx context.Context) {
	n, err := m.store.DeleteExpired(ctx, m.now())
	if err != nil {
		m.log.Error(ctx, "session prune failed", "error", err)
		return
	}
	if n > 0 {
		m.log.Debug(ctx, "pruned expired sessions", "count", n)
	}
}
