package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// Trip is the JSON representation of domain.Trip.
// Exactly one of ExtraLuggagePricePerKilo and PremiumFoodPrice is present,
// matching Kind.
type Trip struct {
	Id                       openapi_types.UUID `json:"id"`
	OperatorId               string             `json:"operator_id"`
	Destination              string             `json:"destination"`
	StartDate                openapi_types.Date `json:"start_date"`
	EndDate                  openapi_types.Date `json:"end_date"`
	FlightPrice              float64            `json:"flight_price"`
	Kind                     string             `json:"kind"`
	StayingNightPrice        float64            `json:"staying_night_price"`
	ExtraLuggagePricePerKilo *float64           `json:"extra_luggage_price_per_kilo,omitempty"`
	PremiumFoodPrice         *float64           `json:"premium_food_price,omitempty"`
	Status                   string             `json:"status"`
	CreatedAt                time.Time          `json:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at"`
}

// OfferTripRequest is the body of POST /trips.
// The operator comes from the X-Operator-ID header, not the body.
type OfferTripRequest struct {
	Destination              string             `json:"destination"`
	StartDate                openapi_types.Date `json:"start_date"`
	EndDate                  openapi_types.Date `json:"end_date"`
	FlightPrice              float64            `json:"flight_price"`
	StayingNightPrice        *float64           `json:"staying_night_price,omitempty"`
	ExtraLuggagePricePerKilo *float64           `json:"extra_luggage_price_per_kilo,omitempty"`
	PremiumFoodPrice         *float64           `json:"premium_food_price,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &page); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody("invalid page parameter"))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody("invalid limit parameter"))
		return
	}

	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	s.writeJSON(w, r, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// OfferTrip handles POST /trips.
func (s *Server) OfferTrip(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := s.operator(w, r)
	if !ok {
		return
	}

	var body OfferTripRequest
	if err := decodeBody(r, &body); err != nil {
		s.decodeFailure(w, r, err)
		return
	}

	created, err := s.trips.Offer(r.Context(), requestToOffer(operatorID, body))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTripParameters) {
			s.writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, tripToResponse(created))
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeJSON(w, r, http.StatusNotFound, notFoundBody("trip not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, tripToResponse(trip))
}

// CancelTrip handles POST /trips/{id}/cancel.
// Responds 204 once the trip and all its bookings are cancelled.
func (s *Server) CancelTrip(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := s.operator(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	err := s.trips.Cancel(r.Context(), operatorID, id)
	if err != nil {
		// The trip is already cancelled when the cascade fails, so the
		// cascade case must win over the sentinels its causes may carry.
		var cascadeErr *domain.CascadeError
		switch {
		case errors.As(err, &cascadeErr):
			s.log.ErrorContext(r.Context(), "trip cancelled with failed bookings",
				"trip_id", id,
				"failed", len(cascadeErr.Failures),
				"error", err,
			)
			s.writeJSON(w, r, http.StatusInternalServerError, cascadeBody(cascadeErr))
		case errors.Is(err, domain.ErrNotFound):
			s.writeJSON(w, r, http.StatusNotFound, notFoundBody("trip not found"))
		case errors.Is(err, domain.ErrUnauthorized):
			s.writeJSON(w, r, http.StatusForbidden, forbiddenBody(err))
		default:
			s.internalError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// operator reads the acting operator from the request header, writing a 401
// when it is missing.
func (s *Server) operator(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(OperatorHeader))
	if id == "" {
		s.writeJSON(w, r, http.StatusUnauthorized, unauthenticatedBody())
		return "", false
	}
	return id, true
}

// pathID parses the {id} path parameter, writing a 400 when it is not a UUID.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody("id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// --- mapping helpers --------------------------------------------------------

// requestToOffer converts an OfferTripRequest into service parameters.
// Absent optional prices become zero.
func requestToOffer(operatorID string, body OfferTripRequest) domain.OfferTripParams {
	return domain.OfferTripParams{
		OperatorID:               operatorID,
		Destination:              body.Destination,
		StartDate:                body.StartDate.Time,
		EndDate:                  body.EndDate.Time,
		FlightPrice:              body.FlightPrice,
		StayingNightPrice:        derefFloat(body.StayingNightPrice),
		ExtraLuggagePricePerKilo: derefFloat(body.ExtraLuggagePricePerKilo),
		PremiumFoodPrice:         derefFloat(body.PremiumFoodPrice),
	}
}

// tripToResponse converts a domain.Trip into its JSON shape.
func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		Id:                t.ID,
		OperatorId:        t.OperatorID,
		Destination:       t.Destination,
		StartDate:         openapi_types.Date{Time: t.StartDate.UTC()},
		EndDate:           openapi_types.Date{Time: t.EndDate.UTC()},
		FlightPrice:       t.FlightPrice,
		Kind:              string(t.Kind()),
		StayingNightPrice: t.StayingNightPrice(),
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
	switch p := t.Pricing.(type) {
	case domain.WithStayPricing:
		v := p.ExtraLuggagePricePerKilo
		resp.ExtraLuggagePricePerKilo = &v
	case domain.TripOnlyPricing:
		v := p.PremiumFoodPrice
		resp.PremiumFoodPrice = &v
	}
	return resp
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
