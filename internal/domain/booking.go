package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a passenger reservation against a trip.
// CancelledAt is nil while the booking is confirmed.
type Booking struct {
	ID            uuid.UUID
	TripID        uuid.UUID
	PassengerName string
	Passengers    int
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CancelledAt   *time.Time
}

// IsCancelled reports whether the booking has been cancelled.
func (b Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}
