package models

import (
	"errors"
	"fmt"
)

var (
	// caller-fixable input errors
	ErrValidation = errors.New("validation error")

	// identity and access errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("not authorized")

	ErrNotFound = errors.New("not found")

	// duplicate submissions and invalid transitions
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")

	// store-level errors
	ErrConditionFailed  = errors.New("condition failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ErrDuplicateApplication is the conflict raised when a student already has a
// non-withdrawn application for the semester.
var ErrDuplicateApplication = fmt.Errorf("application already exists for this semester: %w", ErrConflict)
