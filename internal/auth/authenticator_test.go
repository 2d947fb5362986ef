package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/clubhouse/backend/internal/apperror"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/models"
	"github.com/ayush/clubhouse/backend/internal/password"
	"github.com/ayush/clubhouse/backend/internal/store/memstore"
)

func newAuthenticator(t *testing.T) (*Authenticator, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	return NewAuthenticator(st, password.New(bcrypt.MinCost), logging.Discard()), st
}

func signUp(username, pw string) models.SignUpRequest {
	return models.SignUpRequest{Username: username, Password: pw, ConfirmPassword: pw}
}

type brokenUsers struct{}

func (brokenUsers) FindUserByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}
func (brokenUsers) FindUserByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}
func (brokenUsers) InsertUser(context.Context, *models.User) error { return errors.New("db down") }

func TestSignUp_Success(t *testing.T) {
	a, st := newAuthenticator(t)

	u, err := a.SignUp(context.Background(), signUp("  alice  ", "secret123"))
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.NonMember, u.MembershipStatus)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	stored, err := st.FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestSignUp_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.SignUpRequest
		want string
	}{
		{"short username", signUp("al", "secret123"), "username must be at least 3 characters"},
		{"blank username", signUp("     ", "secret123"), "username is required"},
		{"short password", signUp("alice", "12345"), "password must be at least 6 characters"},
		{"mismatch", models.SignUpRequest{Username: "alice", Password: "secret123", ConfirmPassword: "secret124"}, "passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, st := newAuthenticator(t)

			_, err := a.SignUp(context.Background(), tt.req)
			require.True(t, apperror.IsValidation(err), "got %v", err)
			appErr, _ := apperror.As(err)
			assert.Equal(t, tt.want, appErr.Message)

			_, err = st.FindUserByUsername(context.Background(), "alice")
			assert.Error(t, err)
		})
	}
}

func TestSignUp_Duplicate(t *testing.T) {
	a, _ := newAuthenticator(t)
	ctx := context.Background()

	_, err := a.SignUp(ctx, signUp("alice", "secret123"))
	require.NoError(t, err)

	_, err = a.SignUp(ctx, signUp("alice", "other-pass"))
	assert.True(t, apperror.IsValidation(err))
}

func TestSignUp_StoreFailure(t *testing.T) {
	a := NewAuthenticator(brokenUsers{}, password.New(bcrypt.MinCost), logging.Discard())

	_, err := a.SignUp(context.Background(), signUp("alice", "secret123"))
	assert.True(t, apperror.IsDatabase(err))
}

func TestAuthenticate(t *testing.T) {
	a, _ := newAuthenticator(t)
	ctx := context.Background()
	u, err := a.SignUp(ctx, signUp("alice", "secret123"))
	require.NoError(t, err)

	p, err := a.Authenticate(ctx, " alice ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.ID)
	assert.True(t, p.Authenticated())

	_, err = a.Authenticate(ctx, "alice", "wrong-pass")
	assert.True(t, apperror.IsAuth(err))
	assert.ErrorIs(t, err, ErrBadPassword)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	_, err = a.Authenticate(ctx, "bob", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticate_LongPasswordSuffixIsBadPassword(t *testing.T) {
	a, _ := newAuthenticator(t)
	ctx := context.Background()
	pw := strings.Repeat("a", password.MaxBytes)
	_, err := a.SignUp(ctx, signUp("alice", pw))
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, "alice", pw)
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, "alice", pw+"WRONG")
	assert.ErrorIs(t, err, ErrBadPassword)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	a := NewAuthenticator(brokenUsers{}, password.New(bcrypt.MinCost), logging.Discard())

	_, err := a.Authenticate(context.Background(), "alice", "secret123")
	assert.True(t, apperror.IsDatabase(err))
}
