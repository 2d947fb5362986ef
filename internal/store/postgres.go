package store

import (
	"context"
	"fmt"

	"github.com/ayush/clubhouse/backend/internal/models"
)

const userColumns = `id, username, password_hash, membership_status, is_admin, created_at`

// PostgresStore persists users and messages in PostgreSQL.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) findUser(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.MembershipStatus, &u.IsAdmin, &u.CreatedAt)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// InsertUser stores u and fills in its generated id and created_at.
func (s *PostgresStore) InsertUser(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, membership_status, is_admin)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Username, u.PasswordHash, u.MembershipStatus, u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt)
	if pgCode(err) == pgUniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateMembership(ctx context.Context, id, status string) error {
	return s.updateUser(ctx, `UPDATE users SET membership_status = $2 WHERE id = $1`, id, status)
}

func (s *PostgresStore) UpdateAdminFlag(ctx context.Context, id string, isAdmin bool) error {
	return s.updateUser(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, id, isAdmin)
}

func (s *PostgresStore) updateUser(ctx context.Context, query, id string, value any) error {
	res, err := s.db.ExecContext(ctx, query, id, value)
	if notFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
