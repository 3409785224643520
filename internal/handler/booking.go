package handler

import (
	"errors"
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// Booking is the JSON representation of domain.Booking.
type Booking struct {
	Id            openapi_types.UUID `json:"id"`
	TripId        openapi_types.UUID `json:"trip_id"`
	PassengerName string             `json:"passenger_name"`
	Passengers    int                `json:"passengers"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
}

// CreateBookingRequest is the body of POST /trips/{id}/bookings.
// Passengers defaults to 1 when omitted.
type CreateBookingRequest struct {
	PassengerName string `json:"passenger_name"`
	Passengers    *int   `json:"passengers,omitempty"`
}

// BookingList is the body of GET /trips/{id}/bookings.
type BookingList struct {
	Data []Booking `json:"data"`
}

// CreateBooking handles POST /trips/{id}/bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var body CreateBookingRequest
	if err := decodeBody(r, &body); err != nil {
		s.decodeFailure(w, r, err)
		return
	}

	booking := domain.Booking{
		TripID:        tripID,
		PassengerName: body.PassengerName,
		Passengers:    1,
	}
	if body.Passengers != nil {
		booking.Passengers = *body.Passengers
	}

	created, err := s.bookings.Create(r.Context(), booking)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeJSON(w, r, http.StatusNotFound, notFoundBody("trip not found"))
			return
		}
		if errors.Is(err, domain.ErrInvalidBooking) {
			s.writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, bookingToResponse(created))
}

// ListBookings handles GET /trips/{id}/bookings.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	bookings, err := s.bookings.ListByTripID(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeJSON(w, r, http.StatusNotFound, notFoundBody("trip not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}

	data := make([]Booking, len(bookings))
	for i, b := range bookings {
		data[i] = bookingToResponse(b)
	}
	s.writeJSON(w, r, http.StatusOK, BookingList{Data: data})
}

// bookingToResponse converts a domain.Booking into its JSON shape.
func bookingToResponse(b domain.Booking) Booking {
	return Booking{
		Id:            b.ID,
		TripId:        b.TripID,
		PassengerName: b.PassengerName,
		Passengers:    b.Passengers,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		CancelledAt:   b.CancelledAt,
	}
}
