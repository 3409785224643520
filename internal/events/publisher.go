// Package events publishes domain events about trips and bookings.
// Publishing is best effort: callers log a failed publish and carry on, the
// datastore stays the source of truth.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// Event types, also used as the middle token of the NATS subject.
const (
	TypeTripOffered      = "offered"
	TypeTripCancelled    = "cancelled"
	TypeBookingCancelled = "cancelled"
)

// Publisher is what the service layer needs from an event bus.
type Publisher interface {
	TripOffered(ctx context.Context, trip domain.Trip) error
	TripCancelled(ctx context.Context, trip domain.Trip) error
	BookingCancelled(ctx context.Context, booking domain.Booking) error
}

// TripEvent is the JSON payload for trip events.
type TripEvent struct {
	Type        string    `json:"type"`
	TripID      uuid.UUID `json:"trip_id"`
	OperatorID  string    `json:"operator_id"`
	Destination string    `json:"destination"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingEvent is the JSON payload for booking events.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	TripID     uuid.UUID `json:"trip_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newTripEvent(typ string, t domain.Trip) TripEvent {
	return TripEvent{
		Type:        "trip." + typ,
		TripID:      t.ID,
		OperatorID:  t.OperatorID,
		Destination: t.Destination,
		Kind:        string(t.Kind()),
		Status:      string(t.Status),
		OccurredAt:  time.Now().UTC(),
	}
}

func newBookingEvent(typ string, b domain.Booking) BookingEvent {
	return BookingEvent{
		Type:       "booking." + typ,
		BookingID:  b.ID,
		TripID:     b.TripID,
		Status:     string(b.Status),
		OccurredAt: time.Now().UTC(),
	}
}

// Noop discards every event. Used when NATS_URL is not configured.
type Noop struct{}

func (Noop) TripOffered(context.Context, domain.Trip) error         { return nil }
func (Noop) TripCancelled(context.Context, domain.Trip) error       { return nil }
func (Noop) BookingCancelled(context.Context, domain.Booking) error { return nil }

var _ Publisher = Noop{}
