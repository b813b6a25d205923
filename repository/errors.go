package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on a unique-constraint violation.
var ErrConflict = errors.New("conflict")
