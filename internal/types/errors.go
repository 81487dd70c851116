package types

import "errors"

var (
	// ErrNotFound is returned when a name or id does not resolve to a stored record.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a record fails validation before reaching storage.
	ErrInvalid = errors.New("invalid record")
)
