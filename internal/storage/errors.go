package storage

import (
	"errors"
	"fmt"
)

// Storage errors shared by all store implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLocked is returned when a write targets an entry whose saved flag is set.
	ErrLocked = errors.New("entry is saved and can no longer be modified")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// Table names.
const (
	TableTrades = "trades"
	TableUsers  = "users"
)

// RepositoryError reports a transport or store failure for one operation.
// Callers must not assume any part of the operation was applied.
type RepositoryError struct {
	Table string
	Op    string
	Err   error
}

// Error implements error.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Table, e.Op, e.Err)
}

// Message returns the underlying failure message.
func (e *RepositoryError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError wraps err for table/op. Nil stays nil.
func NewRepositoryError(table, op string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Table: table, Op: op, Err: err}
}

// IsRepositoryError reports whether err carries a RepositoryError.
func IsRepositoryError(err error) bool {
	var re *RepositoryError
	return errors.As(err, &re)
}
