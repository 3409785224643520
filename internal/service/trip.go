// Package service contains the business logic for the Trip Catalog API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
	"github.com/pkordes/trip-catalog/backend/internal/events"
	"github.com/pkordes/trip-catalog/backend/internal/metrics"
	"github.com/pkordes/trip-catalog/backend/internal/repo"
)

// BookingCascader cancels every booking of a trip.
// *BookingCascade is the production implementation.
type BookingCascader interface {
	CancelAll(ctx context.Context, tripID uuid.UUID) error
}

// TripService implements the trip catalog operations: list, offer, cancel.
type TripService struct {
	trips   repo.TripRepo
	cascade BookingCascader
	events  events.Publisher
	log     *slog.Logger
}

// NewTripService constructs a TripService. A nil publisher disables events;
// a nil logger falls back to slog.Default().
func NewTripService(trips repo.TripRepo, cascade BookingCascader, pub events.Publisher, log *slog.Logger) *TripService {
	if pub == nil {
		pub = events.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &TripService{trips: trips, cascade: cascade, events: pub, log: log}
}

// List returns every trip. Always returns a non-nil slice.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of trips and the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Offer validates p and persists a new ACTIVE trip.
// Returns domain.ErrInvalidTripParameters without touching the datastore
// when p violates a trip invariant.
func (s *TripService) Offer(ctx context.Context, p domain.OfferTripParams) (domain.Trip, error) {
	if err := validateOffer(p); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, domain.NewTrip(p))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Offer: %w", err)
	}

	metrics.TripsOffered.WithLabelValues(string(created.Kind())).Inc()
	s.publish(ctx, "trip.offered", s.events.TripOffered(ctx, created))
	return created, nil
}

// Cancel marks the trip CANCELLED on behalf of operatorID and cancels every
// booking that references it.
//
// Returns domain.ErrNotFound for an unknown trip and domain.ErrUnauthorized
// when operatorID does not own it; in both cases nothing is written.
// Cancelling an already-cancelled trip skips the status write but re-runs the
// cascade, so bookings a previous attempt failed on get another try.
// A *domain.CascadeError means the trip is cancelled but some bookings are not.
func (s *TripService) Cancel(ctx context.Context, operatorID string, tripID uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Cancel: %w", err)
	}
	if trip.OperatorID != operatorID {
		return fmt.Errorf("%w: trip %s belongs to another operator", domain.ErrUnauthorized, tripID)
	}

	if !trip.IsCancelled() {
		trip.Status = domain.TripStatusCancelled
		trip, err = s.trips.Update(ctx, trip)
		if err != nil {
			return fmt.Errorf("service.TripService.Cancel: %w", err)
		}
		metrics.TripsCancelled.Inc()
		s.publish(ctx, "trip.cancelled", s.events.TripCancelled(ctx, trip))
	} else {
		s.log.InfoContext(ctx, "trip already cancelled, retrying booking cascade", "trip_id", tripID)
	}

	if err := s.cascade.CancelAll(ctx, trip.ID); err != nil {
		return fmt.Errorf("service.TripService.Cancel: %w", err)
	}
	return nil
}

// publish logs and counts a failed event publish. Events never fail the
// operation that produced them.
func (s *TripService) publish(ctx context.Context, event string, err error) {
	if err == nil {
		return
	}
	metrics.EventPublishErrors.WithLabelValues(event).Inc()
	s.log.WarnContext(ctx, "event publish failed", "event", event, "error", err)
}

// validateOffer enforces the trip invariants checked at creation.
//   - OperatorID and Destination must be non-blank.
//   - Both dates must be set.
//   - StartDate must not be after EndDate (a same-day trip is valid).
//   - FlightPrice must be strictly positive.
//   - Optional prices must not be negative.
//   - Every price must be finite, below domain.MaxPrice, and carry at most
//     domain.PriceDecimals fractional digits, so storage never rounds it.
func validateOffer(p domain.OfferTripParams) error {
	if strings.TrimSpace(p.OperatorID) == "" {
		return fmt.Errorf("%w: operator_id is required", domain.ErrInvalidTripParameters)
	}
	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrInvalidTripParameters)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrInvalidTripParameters)
	}
	if domain.CalendarDate(p.StartDate).After(domain.CalendarDate(p.EndDate)) {
		return fmt.Errorf("%w: start_date must not be after end_date", domain.ErrInvalidTripParameters)
	}
	// Written as !(x > 0) so NaN is rejected too.
	if !(p.FlightPrice > 0) {
		return fmt.Errorf("%w: flight_price must be greater than zero", domain.ErrInvalidTripParameters)
	}
	if err := validatePrice("flight_price", p.FlightPrice); err != nil {
		return err
	}
	for _, price := range []struct {
		name string
		v    float64
	}{
		{"staying_night_price", p.StayingNightPrice},
		{"extra_luggage_price_per_kilo", p.ExtraLuggagePricePerKilo},
		{"premium_food_price", p.PremiumFoodPrice},
	} {
		if !(price.v >= 0) {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidTripParameters, price.name)
		}
		if err := validatePrice(price.name, price.v); err != nil {
			return err
		}
	}
	return nil
}

// validatePrice checks that v fits the NUMERIC(12,2) price columns exactly.
func validatePrice(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidTripParameters, name)
	}
	if v >= domain.MaxPrice {
		return fmt.Errorf("%w: %s must be below %.0f", domain.ErrInvalidTripParameters, name, domain.MaxPrice)
	}
	// The shortest decimal form that round-trips v tells how many digits it carries.
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > domain.PriceDecimals {
		return fmt.Errorf("%w: %s must have at most %d decimal places", domain.ErrInvalidTripParameters, name, domain.PriceDecimals)
	}
	return nil
}
