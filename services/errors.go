package services

import (
	"context"
	"errors"
	"fmt"

	"hotel-frontdesk/lock"
	"hotel-frontdesk/repository"
)

var (
	ErrRoomAlreadyOccupied = errors.New("room_already_occupied")
	ErrRoomNotOccupied     = errors.New("room_not_occupied")
	ErrNoActiveStay        = errors.New("no_active_stay")
	ErrAlreadyPaid         = errors.New("already_paid")
	ErrNotFound            = errors.New("not_found")
)

// ValidationError reports a malformed or missing input field. The caller
// has to correct the input; retrying as-is fails the same way.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Kind classifies an engine error for callers.
type Kind string

const (
	KindValidation          Kind = "ValidationError"
	KindRoomAlreadyOccupied Kind = "RoomAlreadyOccupied"
	KindRoomNotOccupied     Kind = "RoomNotOccupied"
	KindNoActiveStay        Kind = "NoActiveStay"
	KindAlreadyPaid         Kind = "AlreadyPaid"
	KindNotFound            Kind = "NotFound"
	KindLockTimeout         Kind = "LockTimeout"
	KindInternal            Kind = "Internal"
)

func KindOf(err error) Kind {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrRoomAlreadyOccupied):
		return KindRoomAlreadyOccupied
	case errors.Is(err, ErrRoomNotOccupied):
		return KindRoomNotOccupied
	case errors.Is(err, ErrNoActiveStay):
		return KindNoActiveStay
	case errors.Is(err, ErrAlreadyPaid):
		return KindAlreadyPaid
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return KindNotFound
	// a caller that gave up waiting changed nothing and may retry
	case errors.Is(err, lock.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindLockTimeout
	}
	return KindInternal
}
