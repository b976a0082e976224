package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that the record does not exist or belongs to another user
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates that a record with this id is already stored
	ErrRecordExists = errors.New("record already exists")
)
