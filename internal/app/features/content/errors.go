package content

import (
	"errors"
	"strings"
)

// Sentinel errors returned by Service. Handlers map them to HTTP statuses:
// ErrValidation to 400, ErrNotFound to 404, anything else to 500.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// ValidationError describes rejected input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
	Fields  map[string]string // field name -> message
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing record. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return capitalize(e.Kind) + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
