package shared

import (
	"errors"
	"fmt"
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

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrDuplicateCode       = NewDomainError("DUPLICATE_CODE", "Code is already in use")
	ErrInvalidKind         = NewDomainError("INVALID_KIND", "Movement kind is not recognized")
	ErrInvalidQuantity     = NewDomainError("INVALID_QUANTITY", "Quantity is not valid for this movement kind")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrStorageUnavailable  = NewDomainError("STORAGE_UNAVAILABLE", "Storage is unavailable, retry with backoff")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
)

// AsDomainError unwraps err into a DomainError, if it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsDomainError reports whether err carries a DomainError with the given code.
func IsDomainError(err error, code string) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}
