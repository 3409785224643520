package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportRow is a single row in the catalog export.
// It is a flat, denormalized view: one row per booking, with trip fields
// repeated for every booking on that trip. Trips with no bookings yield one
// row with zero values for all booking fields.
type ExportRow struct {
	// Trip fields, repeated for every booking on the trip.
	TripID      uuid.UUID
	OperatorID  string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	FlightPrice float64
	Kind        TripKind
	TripStatus  TripStatus

	// Booking fields, zero values when the trip has no bookings.
	BookingID     uuid.UUID
	PassengerName string
	Passengers    int
	BookingStatus BookingStatus
	CancelledAt   *time.Time
}

// HasBooking reports whether the row carries a booking.
func (r ExportRow) HasBooking() bool {
	return r.BookingID != uuid.Nil
}
