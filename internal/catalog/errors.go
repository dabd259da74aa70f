package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no entry matches the requested ID.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrImportInProgress is returned when another process holds the import lock.
	ErrImportInProgress = errors.New("another import is in progress")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

// NotFoundError reports a lookup for an unknown entry ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog entry %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ErrorKind classifies the error for metrics and exit handling.
func (e *NotFoundError) ErrorKind() string { return "not_found" }

// LockError reports that the import lock could not be taken.
type LockError struct {
	Path string
}

func (e *LockError) Error() string {
	return fmt.Sprintf("import lock %s is held by another process", e.Path)
}

func (e *LockError) Unwrap() error { return ErrImportInProgress }

// ErrorKind classifies the error for metrics and exit handling.
func (e *LockError) ErrorKind() string { return "busy" }
