package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for catalog operations.
type ErrorCode string

const (
	// ErrCodeValidation indicates out-of-range or malformed input parameters.
	ErrCodeValidation ErrorCode = "VALIDATION"
	// ErrCodeNotFound indicates a referenced entity is absent.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeConflict indicates a uniqueness violation.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// CatalogError is a structured error carrying a taxonomy code.
// The router maps codes to HTTP statuses; anything that is not a
// CatalogError surfaces as a generic server fault.
type CatalogError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Convenience constructors for common error types.

// Validation creates a validation error.
func Validation(format string, args ...any) *CatalogError {
	return &CatalogError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *CatalogError {
	return &CatalogError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *CatalogError {
	return &CatalogError{Code: ErrCodeConflict, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the taxonomy code from err, walking the Unwrap chain.
// Returns false when err carries no code.
func CodeOf(err error) (ErrorCode, bool) {
	for err != nil {
		if ce, ok := err.(*CatalogError); ok {
			return ce.Code, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeValidation
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeNotFound
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeConflict
}
