package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a record with the same identifier already exists.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("persistence: store unavailable")
	// ErrSchemaMismatch is returned when the stored schema does not match the
	// one the application expects, usually because migrations have not run.
	ErrSchemaMismatch = errors.New("persistence: schema mismatch")
)
