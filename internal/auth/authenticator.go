package auth

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayush/clubhouse/backend/internal/apperror"
	"github.com/ayush/clubhouse/backend/internal/logging"
	"github.com/ayush/clubhouse/backend/internal/models"
	"github.com/ayush/clubhouse/backend/internal/password"
	"github.com/ayush/clubhouse/backend/internal/store"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrBadPassword  = errors.New("bad password")
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) error
}

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Authenticator registers users and checks their credentials.
type Authenticator struct {
	users    UserStore
	hasher   Hasher
	validate *validator.Validate
	log      logging.Logger
}

func NewAuthenticator(users UserStore, hasher Hasher, log logging.Logger) *Authenticator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Authenticator{users: users, hasher: hasher, validate: v, log: log.With("module", "auth")}
}

// SignUp validates req and creates a non-member, non-admin user.
func (a *Authenticator) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := a.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError(validationMessage(err), err)
	}
	if len(req.Password) > password.MaxBytes {
		return nil, apperror.NewValidationError("password must be at most 72 bytes", nil)
	}

	_, err := a.users.FindUserByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, apperror.NewValidationError("username already taken", nil)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	u := &models.User{
		Username:         req.Username,
		PasswordHash:     hash,
		MembershipStatus: models.NonMember,
	}
	if err := a.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperror.NewValidationError("username already taken", err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	a.log.Info(ctx, "user signed up", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate checks a username/password pair. Failures are AuthErrors
// wrapping ErrUserNotFound or ErrBadPassword.
func (a *Authenticator) Authenticate(ctx context.Context, username, plain string) (models.Principal, error) {
	u, err := a.users.FindUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return models.Anonymous(), apperror.NewAuthError("user not found", ErrUserNotFound)
	}
	if err != nil {
		return models.Anonymous(), apperror.NewDatabaseError("failed to look up user", err)
	}
	if !a.hasher.Verify(plain, u.PasswordHash) {
		return models.Anonymous(), apperror.NewAuthError("bad password", ErrBadPassword)
	}
	return models.PrincipalFor(u), nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
