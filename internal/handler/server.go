// Package handler implements the HTTP handlers for the Trip Catalog API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, booking.go, export.go) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// OperatorHeader carries the identity of the acting operator.
// Authentication happens upstream; this service trusts the header.
const OperatorHeader = "X-Operator-ID"

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Offer(ctx context.Context, p domain.OfferTripParams) (domain.Trip, error)
	Cancel(ctx context.Context, operatorID string, tripID uuid.UUID) error
}

// BookingServicer defines the business operations the booking handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips    TripServicer
	bookings BookingServicer
	export   ExportServicer
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, bookings BookingServicer, export ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, bookings: bookings, export: export, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns a chi router with every API endpoint registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/export", s.GetExport)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.OfferTrip)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Post("/cancel", s.CancelTrip)
			r.Get("/bookings", s.ListBookings)
			r.Post("/bookings", s.CreateBooking)
		})
	})

	return r
}

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonEncode(w, v); err != nil {
		s.log.ErrorContext(r.Context(), "encode response", "error", err)
	}
}

// internalError logs err and writes a generic 500 response.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	s.writeJSON(w, r, http.StatusInternalServerError, internalBody())
}
