package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// AppError is the coded error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// ExitCode is the process exit status for this error.
	ExitCode int `json:"-"`
	// Details contains additional context, such as a line number.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError whose exit code is derived from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: ExitCodeFor(code),
	}
}

// InvalidInput creates an error for an invalid flag or setting.
func InvalidInput(field, reason string) *AppError {
	err := New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason))
	if field != "" {
		err.WithDetail("field", field)
	}
	return err
}

// Validation creates an error for failed struct validation.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// MissingField creates an error for a missing required setting.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("missing required field: %s", field)).
		WithDetail("field", field)
}

// InvalidFormat creates an error for a document element with the wrong
// shape. line and column are 1-based; zero means unknown.
func InvalidFormat(what, expected string, line, column int) *AppError {
	err := New(ErrCodeInvalidFormat, fmt.Sprintf("%s: expected %s", what, expected)).
		WithDetail("expected", expected)
	if line > 0 {
		err.Message = fmt.Sprintf("%s at line %d, column %d", err.Message, line, column)
		err.WithDetails(map[string]any{"line": line, "column": column})
	}
	return err
}

// NotFound creates an error for a missing input file.
func NotFound(path string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s does not exist", path)).
		WithDetail("path", path)
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "unexpected failure").WithCause(cause)
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Wrap returns err as an AppError. AppErrors anywhere in the chain are
// returned as-is, context cancellation becomes CANCELED and anything else
// becomes INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeCanceled, "operation canceled").WithCause(err)
	}
	return Internal(err)
}
