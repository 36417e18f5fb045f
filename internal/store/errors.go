package store

import "errors"

// ErrNotFound is returned when a user record does not exist.
var ErrNotFound = errors.New("not found")
