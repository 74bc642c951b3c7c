package database

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is not visible to
	// the requesting user (scoped lookups make the two indistinguishable).
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user email is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
)
