package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Entry errors
	ErrEntryNotFound = errors.New("entry not found")

	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPersistence matches any *PersistenceError via errors.Is
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError reports a missing or malformed field.
// It is raised before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failure of the entry store
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes every PersistenceError match ErrPersistence
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
