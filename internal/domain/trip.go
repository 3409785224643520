// Package domain contains the core data types for the Trip Catalog service.
// This package has almost no external dependencies and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripKind tells whether a trip includes accommodation.
type TripKind string

const (
	TripKindTripOnly TripKind = "TRIP_ONLY"
	TripKindWithStay TripKind = "WITH_STAY"
)

// TripStatus is the lifecycle state of a trip.
// ACTIVE is the initial state; CANCELLED is terminal.
type TripStatus string

const (
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Trip is an offering published by an operator.
// A trip is the top-level aggregate; bookings reference a trip.
type Trip struct {
	ID          uuid.UUID
	OperatorID  string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	FlightPrice float64 // per passenger
	Pricing     Pricing
	Status      TripStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Kind is derived from the pricing variant. A trip without pricing is TRIP_ONLY.
func (t Trip) Kind() TripKind {
	if t.Pricing == nil {
		return TripKindTripOnly
	}
	return t.Pricing.Kind()
}

// StayingNightPrice returns the nightly price, or zero for TRIP_ONLY trips.
func (t Trip) StayingNightPrice() float64 {
	if p, ok := t.Pricing.(WithStayPricing); ok {
		return p.StayingNightPrice
	}
	return 0
}

// IsCancelled reports whether the trip has reached its terminal state.
func (t Trip) IsCancelled() bool {
	return t.Status == TripStatusCancelled
}

// Pricing is the kind-dependent part of a trip's price list.
// Exactly two implementations exist: TripOnlyPricing and WithStayPricing.
type Pricing interface {
	Kind() TripKind
	isPricing()
}

// TripOnlyPricing applies to trips without accommodation.
type TripOnlyPricing struct {
	PremiumFoodPrice float64
}

func (TripOnlyPricing) Kind() TripKind { return TripKindTripOnly }
func (TripOnlyPricing) isPricing()     {}

// WithStayPricing applies to trips that include paid nights.
// StayingNightPrice is always > 0 for a persisted trip.
type WithStayPricing struct {
	StayingNightPrice        float64
	ExtraLuggagePricePerKilo float64
}

func (WithStayPricing) Kind() TripKind { return TripKindWithStay }
func (WithStayPricing) isPricing()     {}

// Prices are stored with cent precision. MaxPrice is the first value that no
// longer fits; PriceDecimals is the number of fractional digits kept.
const (
	MaxPrice      = 1e10
	PriceDecimals = 2
)

// CalendarDate keeps the calendar day of t in t's own location and returns
// it as UTC midnight, the form every trip date is held in.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OfferTripParams carries the inputs of an offer.
// The last three prices are optional; their zero value is the default.
type OfferTripParams struct {
	OperatorID               string
	Destination              string
	StartDate                time.Time
	EndDate                  time.Time
	FlightPrice              float64
	StayingNightPrice        float64
	ExtraLuggagePricePerKilo float64
	PremiumFoodPrice         float64
}

// NewTrip builds an ACTIVE trip from p, choosing the pricing variant from
// StayingNightPrice. It does not validate; see service.TripService.Offer.
func NewTrip(p OfferTripParams) Trip {
	t := Trip{
		OperatorID:  p.OperatorID,
		Destination: p.Destination,
		StartDate:   CalendarDate(p.StartDate),
		EndDate:     CalendarDate(p.EndDate),
		FlightPrice: p.FlightPrice,
		Status:      TripStatusActive,
	}
	if p.StayingNightPrice > 0 {
		t.Pricing = WithStayPricing{
			StayingNightPrice:        p.StayingNightPrice,
			ExtraLuggagePricePerKilo: p.ExtraLuggagePricePerKilo,
		}
	} else {
		t.Pricing = TripOnlyPricing{PremiumFoodPrice: p.PremiumFoodPrice}
	}
	return t
}
