// Package apperror defines the typed errors returned by services and
// their mapping onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorises an application error.
type ErrorType int

const (
	UnknownError ErrorType = iota
	// DatabaseError is a storage connectivity or constraint failure.
	DatabaseError
	// AuthError is an authentication failure (unknown user, bad password).
	AuthError
	// UnauthorizedError is an authorization denial for a resolved principal.
	UnauthorizedError
	NotFoundError
	ValidationError
	BadRequestError
	InternalError
)

// AppError carries a user-facing Message and an optional underlying error.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case UnauthorizedError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Internal reports whether the error is a server fault that should be logged
// and hidden from the caller.
func (e *AppError) Internal() bool {
	return e.StatusCode() >= http.StatusInternalServerError
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewDatabaseError(message string, err error) *AppError {
	return New(DatabaseError, message, err)
}

func NewAuthError(message string, err error) *AppError {
	return New(AuthError, message, err)
}

func NewUnauthorizedError(message string, err error) *AppError {
	return New(UnauthorizedError, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFoundError, message, err)
}

func NewValidationError(message string, err error) *AppError {
	return New(ValidationError, message, err)
}

func NewBadRequestError(message string, err error) *AppError {
	return New(BadRequestError, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return New(InternalError, message, err)
}

// As extracts the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func Is(err error, errType ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == errType
}

func IsValidation(err error) bool   { return Is(err, ValidationError) }
func IsNotFound(err error) bool     { return Is(err, NotFoundError) }
func IsAuth(err error) bool         { return Is(err, AuthError) }
func IsUnauthorized(err error) bool { return Is(err, UnauthorizedError) }
func IsDatabase(err error) bool     { return Is(err, DatabaseError) }
