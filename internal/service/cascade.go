package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
	"github.com/pkordes/trip-catalog/backend/internal/metrics"
	"github.com/pkordes/trip-catalog/backend/internal/repo"
)

// BookingCanceller cancels a single booking.
// *BookingService is the production implementation.
type BookingCanceller interface {
	Cancel(ctx context.Context, booking domain.Booking) error
}

// BookingCascade cancels all bookings of a cancelled trip.
// It is best effort: every booking is attempted, and failures are reported
// together in a *domain.CascadeError once the loop is done. Bookings already
// cancelled stay cancelled when a later one fails.
type BookingCascade struct {
	bookings  repo.BookingRepo
	canceller BookingCanceller
	log       *slog.Logger
}

// NewBookingCascade constructs a BookingCascade.
func NewBookingCascade(bookings repo.BookingRepo, canceller BookingCanceller, log *slog.Logger) *BookingCascade {
	if log == nil {
		log = slog.Default()
	}
	return &BookingCascade{bookings: bookings, canceller: canceller, log: log}
}

// CancelAll calls the canceller once for each booking of tripID, in the order
// the datastore returns them. A failure to load the bookings is returned
// unchanged (wrapped); per-booking failures are aggregated.
func (c *BookingCascade) CancelAll(ctx context.Context, tripID uuid.UUID) error {
	bookings, err := c.bookings.ListByTripID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.BookingCascade.CancelAll: %w", err)
	}

	var failures []domain.BookingFailure
	for _, b := range bookings {
		if err := c.canceller.Cancel(ctx, b); err != nil {
			c.log.WarnContext(ctx, "booking cancellation failed",
				"trip_id", tripID,
				"booking_id", b.ID,
				"error", err,
			)
			metrics.CascadeFailures.Inc()
			failures = append(failures, domain.BookingFailure{BookingID: b.ID, Err: err})
		}
	}

	if len(failures) > 0 {
		return &domain.CascadeError{TripID: tripID, Failures: failures}
	}

	c.log.InfoContext(ctx, "booking cascade complete", "trip_id", tripID, "bookings", len(bookings))
	return nil
}
