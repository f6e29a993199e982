package storage

import "errors"

var (
	// ErrNotFound is returned when no blob exists at a key.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey is returned for empty keys and keys with empty, "." or
	// ".." segments.
	ErrInvalidKey = errors.New("invalid storage key")
)
