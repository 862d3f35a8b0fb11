package scheduler

import "errors"

var (
	// ErrInvalidInput is returned when a candidate cannot be evaluated, for
	// example because its due date is missing or malformed.
	ErrInvalidInput = errors.New("scheduler: invalid input")
	// ErrUnknownSubject is returned for values outside the subject enumeration.
	ErrUnknownSubject = errors.New("scheduler: unknown subject")
)
