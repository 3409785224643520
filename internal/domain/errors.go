package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidTripParameters is returned when an offer violates the trip
// invariants (date order, positive flight price, non-negative extras).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrInvalidTripParameters = errors.New("invalid trip parameters")

// ErrInvalidBooking is returned when a booking cannot be created
// (bad passenger data, or the trip is no longer active).
var ErrInvalidBooking = errors.New("invalid booking")

// ErrUnauthorized is returned when an operator acts on a trip it does not own.
var ErrUnauthorized = errors.New("unauthorized")

// ErrCascade matches any *CascadeError via errors.Is.
var ErrCascade = errors.New("booking cascade incomplete")

// BookingFailure records one booking the cascade could not cancel.
type BookingFailure struct {
	BookingID uuid.UUID
	Err       error
}

// CascadeError aggregates every per-booking failure of a single cascade.
// The trip itself stays cancelled.
type CascadeError struct {
	TripID   uuid.UUID
	Failures []BookingFailure
}

func (e *CascadeError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.BookingID.String()
	}
	return fmt.Sprintf("%s: trip %s: %d booking(s) not cancelled [%s]: %v",
		ErrCascade, e.TripID, len(e.Failures), strings.Join(ids, ", "), e.combined())
}

// Unwrap exposes only ErrCascade. Per-booking causes stay out of the chain so a
// booking failure wrapping ErrNotFound cannot be mistaken for a missing trip;
// use Causes or Failures to inspect them.
func (e *CascadeError) Unwrap() error {
	return ErrCascade
}

// Causes returns the underlying per-booking errors in failure order.
func (e *CascadeError) Causes() []error {
	return multierr.Errors(e.combined())
}

// FailedBookingIDs lists the bookings that are still not cancelled.
func (e *CascadeError) FailedBookingIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.BookingID
	}
	return ids
}

func (e *CascadeError) combined() error {
	var err error
	for _, f := range e.Failures {
		err = multierr.Append(err, f.Err)
	}
	return err
}
