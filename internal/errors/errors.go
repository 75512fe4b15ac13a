package errors

import (
	"errors"
	"fmt"

	"studiohub/internal/models"
)

// ValidationError means the request itself is malformed: a missing
// required field, a bad enum value, a negative price, end before start.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError means the candidate interval overlaps an existing
// booking or an external calendar event. The conflicting records ride
// along so the caller can display them.
type ConflictError struct {
	Message           string
	Bookings          []models.Booking
	CalendarConflicts []models.CalendarEvent
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(message string, bookings []models.Booking, events []models.CalendarEvent) *ConflictError {
	return &ConflictError{Message: message, Bookings: bookings, CalendarConflicts: events}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
