package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates a failed login attempt. Unknown email
	// and wrong password both map here so callers cannot enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated indicates a missing, malformed, expired or revoked token
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the actor doesn't own the resource or lacks the role
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidRole indicates a role-eligibility failure (e.g. the addressee
	// of a match request is not a mentor)
	ErrInvalidRole = errors.New("invalid role")

	// ErrConflict indicates a conflict with existing data, including a lost
	// race against a concurrent writer
	ErrConflict = errors.New("conflict")

	// ErrInvalidState indicates a state transition not allowed from the
	// current status
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// ForbiddenError creates a forbidden error with context
func ForbiddenError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrForbidden)
	}
	return ErrForbidden
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrConflict)
	}
	return ErrConflict
}

// InvalidStateError creates an invalid state error naming the blocked transition
func InvalidStateError(from, to string) error {
	return fmt.Errorf("cannot transition from '%s' to '%s': %w", from, to, ErrInvalidState)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
