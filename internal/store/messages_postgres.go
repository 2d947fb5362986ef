package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ayush/clubhouse/backend/internal/models"
)

// InsertMessage stores m and returns it with id and created_at set.
func (s *PostgresStore) InsertMessage(ctx context.Context, m models.Message) (*models.Message, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO messages (author_id, content)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		m.AuthorID, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &m, nil
}

// ListMessages returns messages newest first, joined with their author.
func (s *PostgresStore) ListMessages(ctx context.Context, page models.Page) ([]models.Message, error) {
	query, args, err := sq.Select("m.id", "m.author_id", "u.username", "m.content", "m.created_at").
		From("messages m").
		Join("users u ON u.id = m.author_id").
		OrderBy("m.created_at DESC", "m.id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.AuthorID, &m.AuthorName, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *PostgresStore) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if notFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
