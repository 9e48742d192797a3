// Package apperr defines the typed failures the core surfaces to the HTTP
// boundary. Storage and collaborator errors that do not fit this taxonomy
// propagate unmodified.
package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError covers missing users/items/bookings and also authorization
// mismatches that are deliberately reported as not-found so probers cannot
// distinguish "does not exist" from "not yours".
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// BookingStatusError is a domain-rule violation: item unavailable, booking
// already decided, unknown filter token, comment ineligibility.
type BookingStatusError struct {
	Message string
}

func (e *BookingStatusError) Error() string { return e.Message }

func BookingStatusf(format string, args ...any) *BookingStatusError {
	return &BookingStatusError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError is raised by collaborators (duplicate email) and passed
// through unchanged.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsBookingStatus(err error) bool {
	var target *BookingStatusError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
