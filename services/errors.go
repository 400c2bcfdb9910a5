package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeUpstream       ErrorType = "upstream"
	ErrorTypeInternal       ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Domain error variables

var (
	// Validation Errors
	ErrInvalidInput  = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidEmail  = NewDomainError(ErrorTypeValidation, "invalid email format", nil)
	ErrPasswordShort = NewDomainError(ErrorTypeValidation, "password does not meet the minimum length", nil)
	ErrEmptyQuestion = NewDomainError(ErrorTypeValidation, "question cannot be empty", nil)
	ErrInvalidReset  = NewDomainError(ErrorTypeValidation, "invalid email or reset code", nil)

	// Conflict Errors
	ErrEmailTaken    = NewDomainError(ErrorTypeConflict, "email already registered", nil)
	ErrUsernameTaken = NewDomainError(ErrorTypeConflict, "username already taken", nil)

	// Authentication Errors. Signin failures are deliberately a single
	// generic error so callers cannot tell "no such account" from "wrong
	// password".
	ErrInvalidCredentials = NewDomainError(ErrorTypeAuthentication, "incorrect email or password", nil)
	ErrInvalidToken       = NewDomainError(ErrorTypeAuthentication, "invalid authentication credentials", nil)

	// Upstream Errors
	ErrUpstream = NewDomainError(ErrorTypeUpstream, "RAG backend unavailable", nil)

	// Internal Errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// ErrUserNotFound is a sentinel returned by the credential store when a
// lookup misses. It is never surfaced to HTTP callers directly; the auth
// gateway translates it into ErrInvalidCredentials or ErrInvalidToken.
var ErrUserNotFound = errors.New("user not found")

// Error type checking helper functions

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeConflict
	}
	return false
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeAuthentication
	}
	return false
}

// IsUpstreamError checks if an error is an upstream (RAG backend) error
func IsUpstreamError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUpstream
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}
