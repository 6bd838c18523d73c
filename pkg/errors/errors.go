package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrInvalidCredentials = NewAuthError("Invalid email or password")
	ErrEmailRegistered    = NewConflictError("user", "Email already registered")
	ErrInternal           = NewInternalError("internal server error", nil)
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface.
// The message is returned to clients verbatim, so it carries no prefix.
func (e *ValidationError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// ConflictError represents a uniqueness violation, e.g. a duplicate email
type ConflictError struct {
	Resource string
	Message  string
}

// NewConflictError creates a new conflict error
func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status for this error.
// Duplicate registrations are reported as bad requests, not 409.
func (e *ConflictError) HTTPStatus() int {
	return http.StatusBadRequest
}

// AuthError represents rejected credentials
type AuthError struct {
	Message string
}

// NewAuthError creates a new authentication error
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *AuthError) HTTPStatus() int {
	return http.StatusBadRequest
}

// StoreError represents a persistence failure (connectivity, query, constraint)
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError creates a new store error for the given operation
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Err: err,
	}
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("database error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("database error: %s", e.Op)
}

// Unwrap returns the wrapped error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *StoreError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// PublicMessage hides driver details from clients
func (e *StoreError) PublicMessage() string {
	return "Database error"
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// PublicMessage hides internal details from clients
func (e *InternalError) PublicMessage() string {
	return "Internal server error"
}

// HTTPStatuser is implemented by errors that know their HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}

type publicMessager interface {
	PublicMessage() string
}

// StatusCode returns the HTTP status carried by err, or 500 for untyped errors.
func StatusCode(err error) int {
	var s HTTPStatuser
	if errors.As(err, &s) {
		return s.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that may be shown to API clients.
// Untyped errors never leak their text.
func PublicMessage(err error) string {
	var pm publicMessager
	if errors.As(err, &pm) {
		return pm.PublicMessage()
	}
	var s HTTPStatuser
	if errors.As(err, &s) {
		if typed, ok := s.(error); ok {
			return typed.Error()
		}
	}
	return ErrInternal.PublicMessage()
}

// IsTyped reports whether err already belongs to the application taxonomy.
func IsTyped(err error) bool {
	var s HTTPStatuser
	return errors.As(err, &s)
}
