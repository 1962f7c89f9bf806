// Package apperror defines the domain error taxonomy shared by services and handlers.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports required fields that were missing or malformed.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError from a field → reason map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Required creates a ValidationError marking each named field as required.
func Required(names ...string) *ValidationError {
	fields := make(map[string]string, len(names))
	for _, n := range names {
		fields[n] = n + " is a required field"
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// ConflictError reports an attempt to create a record whose unique field is taken.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

// NewConflictError creates a ConflictError.
func NewConflictError(resource, field, value string) *ConflictError {
	return &ConflictError{Resource: resource, Field: field, Value: value}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

// NotFoundError reports an operation on a record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// PayloadError reports a request body that could not be decoded.
type PayloadError struct {
	Err error
}

// NewPayloadError wraps a body decoding failure.
func NewPayloadError(err error) *PayloadError {
	return &PayloadError{Err: err}
}

func (e *PayloadError) Error() string {
	return "malformed request body: " + e.Err.Error()
}

func (e *PayloadError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsPayload reports whether err is or wraps a PayloadError.
func IsPayload(err error) bool {
	var pe *PayloadError
	return errors.As(err, &pe)
}
