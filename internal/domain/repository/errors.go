package repository

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidValue reports a value the column rejects, such as an
	// over-length string or a failed check constraint.
	ErrInvalidValue = errors.New("invalid column value")
)
