package models

import "errors"

// ErrValidation indicates a request payload failed a semantic check
// (bad date format, negative value, unknown referenced cow or sensor).
var ErrValidation = errors.New("validation failed")

// ErrNotFound indicates the referenced record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a record with the same identifier already exists.
var ErrConflict = errors.New("already exists")
