package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ayush/clubhouse/backend/internal/models"
)

// PostgresSessionStore keeps sessions in the sessions table so they survive
// restarts. Expired rows are removed by DeleteExpired.
type PostgresSessionStore struct {
	db DBTX
}

func NewPostgresSessionStore(db DBTX) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

func (s *PostgresSessionStore) Save(ctx context.Context, sess models.Session) error {
	userID := sql.NullString{String: sess.UserID, Valid: sess.UserID != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO UPDATE
		 SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at`,
		sess.Token, userID, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	var (
		sess   models.Session
		userID sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at FROM sessions WHERE token = $1`, token,
	).Scan(&sess.Token, &userID, &sess.ExpiresAt)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sess.UserID = userID.String
	return &sess, nil
}

func (s *PostgresSessionStore) Touch(ctx context.Context, token string, expiresAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = $2 WHERE token = $1`, token, expiresAt)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is idempotent.
func (s *PostgresSessionStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return res.RowsAffected()
}
