package boardkit

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable error category.
type ErrorCode string

// Error codes returned by fallible board operations.
const (
	ErrCodeNodeNotFound  ErrorCode = "NODE_NOT_FOUND"
	ErrCodeInvalidParent ErrorCode = "INVALID_PARENT"
	ErrCodeReparentCycle ErrorCode = "REPARENT_CYCLE"
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeStoreFailure  ErrorCode = "STORE_FAILURE"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    ErrorCode // Machine-readable error code
	Message string    // Human-readable message
	Cause   error     // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the given code and formatted message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error wrapping cause.
func WrapError(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsCode reports whether err's chain contains an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
