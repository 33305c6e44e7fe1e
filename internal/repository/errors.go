package repository

import "errors"

var (
	// ErrNotFound is returned when a row addressed by id or key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write is rejected by a unique index.
	ErrConflict = errors.New("conflict")
)
