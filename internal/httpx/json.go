// Package httpx holds the JSON request/response helpers shared by handlers.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ayush/clubhouse/backend/internal/apperror"
	"github.com/ayush/clubhouse/backend/internal/logging"
)

// maxBodyBytes caps request bodies; messages and credentials are small.
const maxBodyBytes = 64 << 10

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// WriteError renders err as {"error": ...}. Server faults are logged and
// replaced by a generic message; errors outside apperror count as internal.
func WriteError(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error) {
	WriteErrorBody(ctx, w, log, err, "")
}

// WriteErrorBody is WriteError with an optional redirect hint.
func WriteErrorBody(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error, redirect string) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.NewInternalError("internal error", err)
	}
	msg := appErr.Message
	if appErr.Internal() {
		log.Error(ctx, "request failed", "error", err)
		msg = "internal error"
	}
	WriteJSON(w, appErr.StatusCode(), ErrorBody{Error: msg, Redirect: redirect})
}

// Decode reads a JSON body into dst. Empty, malformed or oversized bodies
// become a BadRequestError.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewBadRequestError("request body is empty", err)
		}
		return apperror.NewBadRequestError("invalid request body", err)
	}
	return nil
}
