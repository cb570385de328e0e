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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Deployment pipeline errors
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrConfiguration    ErrorCode = "CONFIGURATION"
	ErrAgentNotFound    ErrorCode = "AGENT_NOT_FOUND"
	ErrRollbackFailed   ErrorCode = "ROLLBACK_FAILED"
	ErrBackupFailed     ErrorCode = "BACKUP_FAILED"
	ErrState            ErrorCode = "STATE"
	ErrCharLimit        ErrorCode = "CHAR_LIMIT_EXCEEDED"

	// Pack errors
	ErrPackNotFound   ErrorCode = "PACK_NOT_FOUND"
	ErrPackCycle      ErrorCode = "PACK_CYCLE"
	ErrCommandInvalid ErrorCode = "COMMAND_INVALID"

	// FileSystem errors
	ErrFileSystem     ErrorCode = "FILE_SYSTEM"
	ErrLinkCreate     ErrorCode = "LINK_CREATE"
	ErrLinkExists     ErrorCode = "LINK_EXISTS"
	ErrWouldOverwrite ErrorCode = "WOULD_OVERWRITE"
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"

	// Format errors
	ErrFormatConversion ErrorCode = "FORMAT_CONVERSION"
)

// SyncError represents a structured error with code and details
type SyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SyncError) Is(target error) bool {
	var targetErr *SyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SyncError with the given code and message
func New(code ErrorCode, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SyncError {
	return &SyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SyncError
func Wrap(err error, code ErrorCode, message string) *SyncError {
	if err == nil {
		return nil
	}
	return &SyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SyncError {
	if err == nil {
		return nil
	}
	return &SyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SyncError) WithDetail(key string, value interface{}) *SyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetCode extracts the error code from an error, returning ErrUnknown for
// errors that are not SyncErrors.
func GetCode(err error) ErrorCode {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Code
	}
	return ErrUnknown
}

// IsCode checks whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsRecoverable reports whether the caller may retry the whole pipeline.
// Only I/O-flavored failures qualify; everything else is terminal for the
// run.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrFileSystem, ErrLinkCreate:
		return true
	}
	return false
}
