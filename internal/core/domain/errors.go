package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent content-model failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document or section does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a section with the same key already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownBlockType indicates a stored block carries an unrecognised discriminator.
	ErrUnknownBlockType = errors.New("unknown block type")

	// ErrStoreRead indicates the document store could not be read.
	// The editor falls back to an empty document.
	ErrStoreRead = errors.New("document store read failed")

	// ErrStoreWrite indicates a document store write failed.
	// Local editor state is kept as-is.
	ErrStoreWrite = errors.New("document store write failed")

	// ErrUnsupportedBackend indicates an unknown store backend name.
	ErrUnsupportedBackend = errors.New("unsupported store backend")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")
)

// ValidationError reports a required field that is missing or malformed.
// It blocks only the save in progress and is shown next to the field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
