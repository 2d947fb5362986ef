// Package board implements the message board: listing with role-dependent
// author visibility, posting, admin deletion and secret-code grants.
package board

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/ayush/clubhouse/backend/internal/apperror"
	"github.com/ayush/clubhouse/backend/internal/guard"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/models"
	"github.com/ayush/clubhouse/backend/internal/store"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type MessageStore interface {
	InsertMessage(ctx context.Context, m models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, page models.Page) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

type UserStore interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateMembership(ctx context.Context, id, status string) error
	UpdateAdminFlag(ctx context.Context, id string, isAdmin bool) error
}

// Secrets are the passphrases for the membership and admin grants. An
// empty passphrase disables its grant.
type Secrets struct {
	Membership string
	Admin      string
}

type Service struct {
	messages MessageStore
	users    UserStore
	secrets  Secrets
	log      logging.Logger
}

func NewService(messages MessageStore, users UserStore, secrets Secrets, log logging.Logger) *Service {
	return &Service{messages: messages, users: users, secrets: secrets, log: log.With("module", "board")}
}

// NormalizePage applies the default and maximum limit and clamps offset.
func NormalizePage(page models.Page) models.Page {
	if page.Limit <= 0 {
		page.Limit = DefaultLimit
	}
	if page.Limit > MaxLimit {
		page.Limit = MaxLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}

// List returns messages newest first. Authors are shown to members and admins only.
func (s *Service) List(ctx context.Context, p models.Principal, page models.Page) ([]models.MessageView, error) {
	msgs, err := s.messages.ListMessages(ctx, NormalizePage(page))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list messages", err)
	}
	showAuthor := guard.RequireMember(p) == nil
	views := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		v := models.MessageView{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt}
		if showAuthor {
			v.Author = m.AuthorName
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *Service) Create(ctx context.Context, p models.Principal, content string) (*models.Message, error) {
	if err := guard.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.NewValidationError("content must not be empty", nil)
	}
	m, err := s.messages.InsertMessage(ctx, models.Message{
		AuthorID:   p.ID,
		AuthorName: p.Username,
		Content:    content,
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create message", err)
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, p models.Principal, id string) error {
	if err := guard.RequireAdmin(p); err != nil {
		return err
	}
	if err := s.messages.DeleteMessage(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NewNotFoundError("message not found", err)
		}
		return apperror.NewDatabaseError("failed to delete message", err)
	}
	s.log.Info(ctx, "message deleted", "message_id", id, "admin_id", p.ID)
	return nil
}

// GrantMembership makes p a member when supplied matches the membership
// passphrase and returns the refreshed principal.
func (s *Service) GrantMembership(ctx context.Context, p models.Principal, supplied string) (models.Principal, error) {
	return s.grant(ctx, p, supplied, s.secrets.Membership, "membership", func(ctx context.Context) error {
		return s.users.UpdateMembership(ctx, p.ID, models.Member)
	})
}

// GrantAdmin sets the admin flag when supplied matches the admin passphrase.
func (s *Service) GrantAdmin(ctx context.Context, p models.Principal, supplied string) (models.Principal, error) {
	return s.grant(ctx, p, supplied, s.secrets.Admin, "admin", func(ctx context.Context) error {
		return s.users.UpdateAdminFlag(ctx, p.ID, true)
	})
}

func (s *Service) grant(ctx context.Context, p models.Principal, supplied, secret, kind string, apply func(context.Context) error) (models.Principal, error) {
	if err := guard.RequireAuthenticated(p); err != nil {
		return p, err
	}
	if !secretMatches(supplied, secret) {
		s.log.Info(ctx, "wrong secret", "grant", kind, "user_id", p.ID)
		return p, apperror.NewValidationError("incorrect secret", nil)
	}
	if err := apply(ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return p, apperror.NewNotFoundError("user not found", err)
		}
		return p, apperror.NewDatabaseError("failed to update user", err)
	}
	u, err := s.users.FindUserByID(ctx, p.ID)
	if err != nil {
		return p, apperror.NewDatabaseError("failed to reload user", err)
	}
	s.log.Info(ctx, "grant applied", "grant", kind, "user_id", p.ID)
	return models.PrincipalFor(u), nil
}

func secretMatches(supplied, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(supplied)), []byte(secret)) == 1
}
