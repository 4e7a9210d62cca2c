package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a pintree error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrMalformedEntry ErrorCode = "MALFORMED_ENTRY" // 422
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
	ErrLoadFailed     ErrorCode = "LOAD_FAILED"     // 502
	ErrNotReady       ErrorCode = "NOT_READY"       // 503
)

// PintreeError represents a structured error with code, status, and details.
type PintreeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PintreeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PintreeError {
	return &PintreeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a navigation lookup that matched nothing.
// level is the navigation level searched ("primary", "secondary", "tertiary").
func NewNotFound(level, title string) *PintreeError {
	return &PintreeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s category not found: %s", level, title),
		Details: map[string]any{"level": level, "title": title},
	}
}

// NewFileNotFound creates a 404 error for a missing file.
func NewFileNotFound(path string) *PintreeError {
	return &PintreeError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewMalformedEntry creates a 422 error describing a single bad bookmark entry.
func NewMalformedEntry(path []string, reason string) *PintreeError {
	return &PintreeError{
		Code:    ErrMalformedEntry,
		Status:  422,
		Message: fmt.Sprintf("malformed entry: %s", reason),
		Details: map[string]any{"path": path, "reason": reason},
	}
}

// NewCancelled creates a 499 error when an operation is cancelled by its context.
func NewCancelled(op string) *PintreeError {
	return &PintreeError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewLoadFailed creates a 502 error when the bookmark document cannot be loaded.
func NewLoadFailed(source string, err error) *PintreeError {
	msg := fmt.Sprintf("failed to load bookmarks from %s", source)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &PintreeError{
		Code:    ErrLoadFailed,
		Status:  502,
		Message: msg,
		Details: map[string]any{"source": source},
	}
}

// NewNotReady creates a 503 error for actions attempted before data is available.
func NewNotReady(status string) *PintreeError {
	return &PintreeError{
		Code:    ErrNotReady,
		Status:  503,
		Message: fmt.Sprintf("bookmarks not ready (status: %s)", status),
		Details: map[string]any{"status": status},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PintreeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PintreeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a PintreeError with the given code.
func Is(err error, code ErrorCode) bool {
	var pErr *PintreeError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// As converts err to a PintreeError, wrapping unknown errors as INTERNAL.
func As(err error) *PintreeError {
	if err == nil {
		return nil
	}
	var pErr *PintreeError
	if stderrors.As(err, &pErr) {
		return pErr
	}
	return NewInternal(err)
}
