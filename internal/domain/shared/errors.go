package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context.
// The HTTP layer maps each code to a status in dto.ErrorCodeHTTPStatus.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeForbidden           = "FORBIDDEN"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodePaymentRequired     = "PAYMENT_REQUIRED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so wrapped sentinels
// compare equal through errors.Is.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed input
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewInvalidTransitionError reports an operation that is not legal from the current status
func NewInvalidTransitionError(entity, from, operation string) *DomainError {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("cannot %s %s in status %s", operation, entity, from))
}

// NewForbiddenError reports an actor that may not perform the operation
func NewForbiddenError(format string, args ...any) *DomainError {
	return NewDomainError(CodeForbidden, fmt.Sprintf(format, args...))
}

// NewPaymentRequiredError reports a step gated on completed payment
func NewPaymentRequiredError(format string, args ...any) *DomainError {
	return NewDomainError(CodePaymentRequired, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
)

// IsCode reports whether err is (or wraps) a DomainError with the given code
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
