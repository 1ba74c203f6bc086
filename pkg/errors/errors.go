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
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss  = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	// Planner reason codes surfaced across the core boundary.
	ErrNoCoursesSelected   = New("NO_COURSES_SELECTED", http.StatusBadRequest, "please select at least one course")
	ErrCourseUnavailable   = New("COURSE_UNAVAILABLE", http.StatusBadRequest, "one or more selected courses are not available for the chosen semester")
	ErrNoSectionsForCourse = New("NO_SECTIONS_FOR_COURSE", http.StatusUnprocessableEntity, "a selected course has no sections that meet the time criteria")
	ErrInvalidTimeWindow   = New("INVALID_TIME_WINDOW", http.StatusBadRequest, "the earliest start time cannot be after the latest end time")
	ErrOverConstrained     = New("OVER_CONSTRAINED", http.StatusUnprocessableEntity, "no schedules match the selected courses and constraints")
	ErrInvalidSemester     = New("INVALID_SEMESTER", http.StatusNotFound, "the selected semester data is not available")
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
