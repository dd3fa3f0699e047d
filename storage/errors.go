package storage

import "errors"

var (
	// ErrNotFound is returned when the requested artifact does not exist.
	ErrNotFound = errors.New("not found")
	// ErrKeyAlreadyExists is returned when an artifact is created at a key
	// already in use.
	ErrKeyAlreadyExists = errors.New("key already exists")
)
