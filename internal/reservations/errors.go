package reservations

import "errors"

var (
	// ErrValidation marks missing or malformed caller input. Nothing
	// is persisted when it is returned.
	ErrValidation = errors.New("reservations: validation failed")

	// ErrNotFound means the referenced reservation does not exist.
	ErrNotFound = errors.New("reservations: not found")

	// ErrInvalidID means the id is not a well-formed positive integer.
	ErrInvalidID = errors.New("reservations: invalid id")
)
