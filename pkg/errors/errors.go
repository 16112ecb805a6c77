package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigKey   ErrorCode = "CONFIG_KEY"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// External tool errors
	ErrToolExec ErrorCode = "TOOL_EXEC"

	// Key management errors
	ErrKeyImport ErrorCode = "KEY_IMPORT"
	ErrKeyVerify ErrorCode = "KEY_VERIFY"

	// Patch engine errors
	ErrPatchRule         ErrorCode = "PATCH_RULE"
	ErrPatchUnterminated ErrorCode = "PATCH_UNTERMINATED"

	// Interaction errors
	ErrUserAbort ErrorCode = "USER_ABORT"
)

// SetupError represents a structured error with code and details
type SetupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SetupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SetupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SetupError) Is(target error) bool {
	var targetErr *SetupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SetupError with the given code and message
func New(code ErrorCode, message string) *SetupError {
	return &SetupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SetupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SetupError {
	return &SetupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SetupError
func Wrap(err error, code ErrorCode, message string) *SetupError {
	if err == nil {
		return nil
	}
	return &SetupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SetupError {
	if err == nil {
		return nil
	}
	return &SetupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SetupError) WithDetail(key string, value interface{}) *SetupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return setupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SetupError
func GetErrorCode(err error) ErrorCode {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return setupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SetupError
func GetErrorDetails(err error) map[string]interface{} {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return setupErr.Details
	}
	return nil
}

// IsAbort reports whether err, or any error it wraps, is a user-initiated cancel.
func IsAbort(err error) bool {
	for err != nil {
		var setupErr *SetupError
		if !errors.As(err, &setupErr) {
			return false
		}
		if setupErr.Code == ErrUserAbort {
			return true
		}
		err = setupErr.Wrapped
	}
	return false
}
