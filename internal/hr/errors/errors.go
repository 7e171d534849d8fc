// Package errors defines the sentinel errors shared across the HR master
// service and helpers for shaping validation messages.
package errors

import (
	"fmt"
	"strings"
)

var (
	ErrNotFound        = fmt.Errorf("not found")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrAuthUnavailable = fmt.Errorf("auth service unavailable")
	ErrDumpFailed      = fmt.Errorf("audit dump write failed")
)

// FieldError is a validation failure attributed to a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates per-field failures. Its message joins the
// entries as "field: message | field: message".
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, " | ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add appends a field failure and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// Empty reports whether no failures were recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// OrNil returns nil when no failures were recorded, the error otherwise.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}
