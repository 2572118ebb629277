package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrCategoryNotFound indicates a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrConcurrencyConflict indicates a row was modified or removed after it
	// was loaded, so a pending write could not be applied.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrValidation indicates the submitted input is not a valid item.
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists every rejected input field with a human-readable
// reason. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for the given field messages.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
