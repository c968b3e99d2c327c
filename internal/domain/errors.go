package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrValidation     = errors.New("validation error")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrConflict       = errors.New("conflict")
)

// SchemaMismatchError reports a card record that does not match the known
// record schema: required fields that are absent, or fields that survived
// decomposition unconsumed. Unconsumed fields are the primary defense
// against silently dropping data when record schemas evolve.
type SchemaMismatchError struct {
	// Missing lists required fields absent from the record.
	Missing []string
	// Leftover lists fields nothing consumed, sorted.
	Leftover []string
}

func (e *SchemaMismatchError) Error() string {
	switch {
	case len(e.Missing) > 0 && len(e.Leftover) > 0:
		return fmt.Sprintf("schema mismatch: missing fields [%s], unprocessed fields [%s]",
			strings.Join(e.Missing, ", "), strings.Join(e.Leftover, ", "))
	case len(e.Missing) > 0:
		return fmt.Sprintf("schema mismatch: missing fields [%s]", strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("schema mismatch: unprocessed fields [%s]", strings.Join(e.Leftover, ", "))
	}
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// AmbiguousEvolutionError reports more than one evolution link in a
// direction the model caps at one (a card evolves from at most one family).
type AmbiguousEvolutionError struct {
	Card     string
	Families []string
}

func (e *AmbiguousEvolutionError) Error() string {
	return fmt.Sprintf("card %q evolves from %d families [%s], at most one allowed",
		e.Card, len(e.Families), strings.Join(e.Families, ", "))
}

func (e *AmbiguousEvolutionError) Unwrap() error { return ErrConflict }
