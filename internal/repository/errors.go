package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate")

// ErrReference is returned when a write points at a row that does not exist
// (foreign key violation).
var ErrReference = errors.New("referenced record does not exist")
