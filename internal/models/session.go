package models

import "time"

// Session maps an opaque token to a user until ExpiresAt. UserID is empty
// for an anonymous session.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
