package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrShowtimeNotFound      = fmt.Errorf("showtime %w", ErrRecordNotFound)
	ErrSeatNotFound          = fmt.Errorf("seat %w", ErrRecordNotFound)
	ErrWindowClosed          = errors.New("booking window is closed for this showtime")
	ErrMisconfiguredShowtime = errors.New("showtime has no base price configured")
	ErrSeatConflict          = errors.New("seat(s) are already reserved")
	ErrCommitFailure         = errors.New("order could not be committed")
	ErrDuplicateOrderCode    = errors.New("duplicate order code")
	ErrForbidden             = errors.New("order belongs to another user")
	ErrNoSeatsRequested      = errors.New("at least one seat must be requested")
	ErrTooManySeats          = errors.New("too many seats requested")
)

// SeatConflictError names exactly the requested seats that could not be claimed.
type SeatConflictError struct {
	Labels []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSeatConflict, strings.Join(e.Labels, ", "))
}

func (e *SeatConflictError) Unwrap() error {
	return ErrSeatConflict
}

// UnknownSeatsError names requested labels that are not part of the room layout.
type UnknownSeatsError struct {
	Labels []string
}

func (e *UnknownSeatsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSeatNotFound, strings.Join(e.Labels, ", "))
}

func (e *UnknownSeatsError) Unwrap() error {
	return ErrSeatNotFound
}
