package storage

import (
	"errors"
	"fmt"
)

// Common storage errors.
var (
	// ErrNotFound is returned when an id has no recorded type.
	ErrNotFound = errors.New("id not found")

	// ErrConflict is returned when an id already carries a different type.
	ErrConflict = errors.New("id type conflict")

	// ErrUnknownDriver is returned by Open for unsupported backends.
	ErrUnknownDriver = errors.New("unknown cache driver")
)

// ConflictError reports the type already held for an id.
type ConflictError struct {
	ID        string
	Existing  string
	Attempted string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("id %s already typed %q, refusing %q", e.ID, e.Existing, e.Attempted)
}

// Is lets errors.Is match ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// settle turns the value found under an occupied key into the result of a
// SetIfAbsent call.
func settle(id, existing, attempted string) error {
	if existing == attempted {
		return nil
	}
	return &ConflictError{ID: id, Existing: existing, Attempted: attempted}
}
