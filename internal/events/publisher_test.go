package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

func TestSubjects(t *testing.T) {
	trip := domain.Trip{ID: uuid.MustParse("7f3c1b2e-0000-4000-8000-000000000001")}
	booking := domain.Booking{ID: uuid.MustParse("7f3c1b2e-0000-4000-8000-000000000002")}

	assert.Equal(t, "trips.offered.7f3c1b2e-0000-4000-8000-000000000001", TripSubject(TypeTripOffered, trip))
	assert.Equal(t, "trips.cancelled.7f3c1b2e-0000-4000-8000-000000000001", TripSubject(TypeTripCancelled, trip))
	assert.Equal(t, "bookings.cancelled.7f3c1b2e-0000-4000-8000-000000000002", BookingSubject(TypeBookingCancelled, booking))
}

func TestNewTripEvent(t *testing.T) {
	trip := domain.Trip{
		ID:          uuid.New(),
		OperatorID:  "op1",
		Destination: "Porto",
		Pricing:     domain.WithStayPricing{StayingNightPrice: 90},
		Status:      domain.TripStatusCancelled,
	}

	ev := newTripEvent(TypeTripCancelled, trip)

	assert.Equal(t, "trip.cancelled", ev.Type)
	assert.Equal(t, trip.ID, ev.TripID)
	assert.Equal(t, "WITH_STAY", ev.Kind)
	assert.Equal(t, "CANCELLED", ev.Status)
	assert.False(t, ev.OccurredAt.IsZero())

	// The payload is what subscribers see on the wire.
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "op1", wire["operator_id"])
	assert.Equal(t, trip.ID.String(), wire["trip_id"])
}

func TestNewBookingEvent(t *testing.T) {
	b := domain.Booking{ID: uuid.New(), TripID: uuid.New(), Status: domain.BookingStatusCancelled}

	ev := newBookingEvent(TypeBookingCancelled, b)

	assert.Equal(t, "booking.cancelled", ev.Type)
	assert.Equal(t, b.ID, ev.BookingID)
	assert.Equal(t, b.TripID, ev.TripID)
	assert.Equal(t, "CANCELLED", ev.Status)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	ctx := context.Background()

	assert.NoError(t, p.TripOffered(ctx, domain.Trip{}))
	assert.NoError(t, p.TripCancelled(ctx, domain.Trip{}))
	assert.NoError(t, p.BookingCancelled(ctx, domain.Booking{}))
}
