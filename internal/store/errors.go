package store

import "errors"

var (
	// ErrNotFound is returned when a lookup or targeted mutation matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)
