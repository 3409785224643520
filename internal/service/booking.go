package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
	"github.com/pkordes/trip-catalog/backend/internal/events"
	"github.com/pkordes/trip-catalog/backend/internal/metrics"
	"github.com/pkordes/trip-catalog/backend/internal/repo"
)

// BookingService implements business logic for Booking operations.
// It holds the trips repo because creating a booking requires an active trip.
type BookingService struct {
	trips    repo.TripRepo
	bookings repo.BookingRepo
	events   events.Publisher
	log      *slog.Logger
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(trips repo.TripRepo, bookings repo.BookingRepo, pub events.Publisher, log *slog.Logger) *BookingService {
	if pub == nil {
		pub = events.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &BookingService{trips: trips, bookings: bookings, events: pub, log: log}
}

// Create validates the booking, verifies the parent trip is bookable, then persists.
// Returns domain.ErrInvalidBooking for bad input or a cancelled trip,
// domain.ErrNotFound if the trip does not exist.
func (s *BookingService) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	if err := validateBooking(booking); err != nil {
		return domain.Booking{}, err
	}
	trip, err := s.trips.GetByID(ctx, booking.TripID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if trip.IsCancelled() {
		return domain.Booking{}, fmt.Errorf("%w: trip is cancelled", domain.ErrInvalidBooking)
	}
	result, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return result, nil
}

// ListByTripID returns all bookings of a trip.
// Returns domain.ErrNotFound if the trip does not exist.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByTripID: %w", err)
	}
	bookings, err := s.bookings.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByTripID: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// Cancel cancels one booking. Cancelling an already-cancelled booking is a no-op,
// including when another request cancelled it after the caller loaded it.
func (s *BookingService) Cancel(ctx context.Context, booking domain.Booking) error {
	if booking.IsCancelled() {
		return nil
	}
	cancelled, changed, err := s.bookings.MarkCancelled(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("service.BookingService.Cancel: %w", err)
	}
	if !changed {
		s.log.InfoContext(ctx, "booking already cancelled", "booking_id", booking.ID)
		return nil
	}
	metrics.BookingsCancelled.Inc()
	if err := s.events.BookingCancelled(ctx, cancelled); err != nil {
		metrics.EventPublishErrors.WithLabelValues("booking.cancelled").Inc()
		s.log.WarnContext(ctx, "event publish failed", "event", "booking.cancelled", "error", err)
	}
	return nil
}

// validateBooking enforces the booking input rules.
//   - PassengerName must be non-empty (whitespace-only names are rejected).
//   - Passengers must be at least 1.
func validateBooking(b domain.Booking) error {
	if strings.TrimSpace(b.PassengerName) == "" {
		return fmt.Errorf("%w: passenger_name is required", domain.ErrInvalidBooking)
	}
	if b.Passengers < 1 {
		return fmt.Errorf("%w: passengers must be at least 1", domain.ErrInvalidBooking)
	}
	return nil
}

var _ BookingCanceller = (*BookingService)(nil)
