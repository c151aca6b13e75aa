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

	// Pattern and matching errors
	ErrPattern         ErrorCode = "PATTERN"
	ErrNamingCollision ErrorCode = "NAMING_COLLISION"

	// Value errors
	ErrValueType   ErrorCode = "VALUE_TYPE"
	ErrEmptyValues ErrorCode = "EMPTY_VALUES"

	// Expansion errors
	ErrTemplateSubstitution ErrorCode = "TEMPLATE_SUBSTITUTION"
	ErrFilter               ErrorCode = "FILTER"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Plan errors
	ErrPlanLoad    ErrorCode = "PLAN_LOAD"
	ErrPlanInvalid ErrorCode = "PLAN_INVALID"

	// Output errors
	ErrOutputFormat ErrorCode = "OUTPUT_FORMAT"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
)

// NingenError represents a structured error with code and details
type NingenError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *NingenError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *NingenError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *NingenError) Is(target error) bool {
	var targetErr *NingenError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new NingenError with the given code and message
func New(code ErrorCode, message string) *NingenError {
	return &NingenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new NingenError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *NingenError {
	return &NingenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a NingenError
func Wrap(err error, code ErrorCode, message string) *NingenError {
	if err == nil {
		return nil
	}
	return &NingenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *NingenError {
	if err == nil {
		return nil
	}
	return &NingenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *NingenError) WithDetail(key string, value interface{}) *NingenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *NingenError) WithDetails(details map[string]interface{}) *NingenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ningenErr *NingenError
	if errors.As(err, &ningenErr) {
		return ningenErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a NingenError
func GetErrorCode(err error) ErrorCode {
	var ningenErr *NingenError
	if errors.As(err, &ningenErr) {
		return ningenErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a NingenError
func GetErrorDetails(err error) map[string]interface{} {
	var ningenErr *NingenError
	if errors.As(err, &ningenErr) {
		return ningenErr.Details
	}
	return nil
}
