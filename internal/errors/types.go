package errors

import (
	stderrors "errors"
	"fmt"
)

// OutboundError defines the base interface for all errors raised while inferring request schemas
type OutboundError interface {
	error
	ErrorCode() ErrorCode
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Recoverable per-route codes
	NotFoundCode
	UnparseableCode
	AmbiguousSourceCode

	// Caller-level codes
	FileSystemCode
	ConfigurationCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case NotFoundCode:
		return "NotFound"
	case UnparseableCode:
		return "Unparseable"
	case AmbiguousSourceCode:
		return "AmbiguousSource"
	case FileSystemCode:
		return "FileSystemError"
	case ConfigurationCode:
		return "ConfigurationError"
	default:
		return "UnknownError"
	}
}

// Recoverable reports whether errors with this code only affect a single route
func (e ErrorCode) Recoverable() bool {
	switch e {
	case NotFoundCode, UnparseableCode, AmbiguousSourceCode:
		return true
	default:
		return false
	}
}

// BaseError provides a common implementation of the OutboundError interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // error message
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // additional context information
	Hints       []string               // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Hints:   make([]string, 0),
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Hints:   make([]string, 0),
	}
}

// CodeOf returns the code of the first OutboundError in err's chain
func CodeOf(err error) ErrorCode {
	var oe OutboundError
	if stderrors.As(err, &oe) {
		return oe.ErrorCode()
	}
	return UnknownErrorCode
}

// IsNotFound reports whether err (or its chain) is a NotFound error
func IsNotFound(err error) bool {
	return CodeOf(err) == NotFoundCode
}

// IsUnparseable reports whether err (or its chain) is an Unparseable error
func IsUnparseable(err error) bool {
	return CodeOf(err) == UnparseableCode
}
