// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Typed error kinds surfaced by the storage and reporting layers.
// Callers match with errors.Is; messages carry the offending field.
var (
	// ErrInvalidInput indicates malformed input: a bad date or month string,
	// a non-positive amount, or an empty name.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates the operation targeted a nonexistent record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName indicates a category name collision.
	ErrDuplicateName = errors.New("duplicate category name")
	// ErrDuplicateBudget indicates a budget already exists for the
	// (month, category) pair.
	ErrDuplicateBudget = errors.New("duplicate budget")
	// ErrReferentialConstraint indicates a delete was blocked by dependent
	// rows, or an insert referenced a missing category.
	ErrReferentialConstraint = errors.New("referential constraint")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
