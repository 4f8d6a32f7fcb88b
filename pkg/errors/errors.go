package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	// Timetable domain.
	ErrSessionConflict        = New("SESSION_CONFLICT", http.StatusConflict, "session collides with existing bookings")
	ErrStaleConflict          = New("STALE_CONFLICT", http.StatusConflict, "timetable changed since conflicts were detected")
	ErrConflictNotFound       = New("CONFLICT_NOT_FOUND", http.StatusNotFound, "conflict not found")
	ErrResolutionNotFound     = New("RESOLUTION_NOT_FOUND", http.StatusNotFound, "resolution not found")
	ErrResolutionNotSupported = New("RESOLUTION_NOT_SUPPORTED", http.StatusUnprocessableEntity, "resolution action is not supported")
	ErrInvalidResolution      = New("INVALID_RESOLUTION", http.StatusUnprocessableEntity, "resolution cannot be applied")
	ErrTimetableLocked        = New("TIMETABLE_LOCKED", http.StatusConflict, "timetable is no longer editable")
	ErrScanQueueUnavailable   = New("SCAN_QUEUE_UNAVAILABLE", http.StatusServiceUnavailable, "master scan queue is not running")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// WithDetails returns a copy of the error carrying structured details.
func WithDetails(err *Error, details any) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
