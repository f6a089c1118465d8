package repository

import "errors"

var (
	// ErrNotFound is returned when the singleton record has not been written yet
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a record cannot be encoded for storage
	ErrInvalidInput = errors.New("invalid input")
)
