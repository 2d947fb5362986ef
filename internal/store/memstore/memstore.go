// Package memstore is an in-memory implementation of the user, message and
// session stores, used by tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayush/clubhouse/backend/internal/models"
	"github.com/ayush/clubhouse/backend/internal/store"
)

type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[string]models.User
	messages []models.Message
	sessions map[string]models.Session
}

func New() *Store {
	return &Store{
		now:      time.Now,
		users:    map[string]models.User{},
		sessions: map[string]models.Session{},
	}
}

// SetClock replaces the clock used for created_at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) InsertUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return store.ErrDuplicate
		}
	}
	u.ID = uuid.New().String()
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UpdateMembership(_ context.Context, id, status string) error {
	return s.updateUser(id, func(u *models.User) { u.MembershipStatus = status })
}

func (s *Store) UpdateAdminFlag(_ context.Context, id string, isAdmin bool) error {
	return s.updateUser(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (s *Store) updateUser(id string, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(&u)
	s.users[id] = u
	return nil
}

func (s *Store) InsertMessage(_ context.Context, m models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	author, ok := s.users[m.AuthorID]
	if !ok {
		return nil, fmt.Errorf("insert message: unknown author %q", m.AuthorID)
	}
	m.ID = uuid.New().String()
	m.AuthorName = author.Username
	m.CreatedAt = s.now()
	s.messages = append(s.messages, m)
	return &m, nil
}

func (s *Store) ListMessages(_ context.Context, page models.Page) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Insertion order breaks created_at ties, newest first.
	sorted := make([]models.Message, len(s.messages))
	for i, m := range s.messages {
		sorted[len(s.messages)-1-i] = m
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	out := []models.Message{}
	for i := page.Offset; i < len(sorted) && len(out) < page.Limit; i++ {
		out = append(out, sorted[i])
	}
	return out, nil
}

func (s *Store) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// MessageCount reports how many messages are stored.
func (s *Store) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Store) Save(_ context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) Get(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) Touch(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return store.ErrNotFound
	}
	sess.ExpiresAt = expiresAt
	s.sessions[token] = sess
	return nil
}

func (s *Store) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *Store) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

// SessionCount reports how many sessions are stored, expired or not.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
