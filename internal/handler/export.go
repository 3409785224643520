// Package handler: export.go implements GET /export.
// Returns every trip and booking as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// ExportServicer defines the operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, operatorID string) ([]domain.ExportRow, error)
}

// ExportRow is the JSON representation of domain.ExportRow.
// Booking fields are omitted for trips without bookings.
type ExportRow struct {
	TripId        openapi_types.UUID  `json:"trip_id"`
	OperatorId    string              `json:"operator_id"`
	Destination   string              `json:"destination"`
	StartDate     openapi_types.Date  `json:"start_date"`
	EndDate       openapi_types.Date  `json:"end_date"`
	FlightPrice   float64             `json:"flight_price"`
	Kind          string              `json:"kind"`
	TripStatus    string              `json:"trip_status"`
	BookingId     *openapi_types.UUID `json:"booking_id,omitempty"`
	PassengerName *string             `json:"passenger_name,omitempty"`
	Passengers    *int                `json:"passengers,omitempty"`
	BookingStatus *string             `json:"booking_status,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
}

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "operator_id", "destination", "start_date", "end_date",
	"flight_price", "kind", "trip_status",
	"booking_id", "passenger_name", "passengers", "booking_status", "cancelled_at",
}

// GetExport handles GET /export.
// It returns a flat table of every trip and booking combination.
// Use ?format=csv to receive CSV; default is JSON. ?operator_id= narrows the
// export to one operator's trips.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		s.writeJSON(w, r, http.StatusBadRequest, requestBody("format must be json or csv"))
		return
	}

	rows, err := s.export.Export(r.Context(), r.URL.Query().Get("operator_id"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if format == "csv" {
		s.writeCSV(w, r, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRowToResponse(row))
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

// writeCSV encodes rows as CSV, header row first.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(exportRowToCSVRecord(row))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// exportRowToResponse maps a domain.ExportRow to its JSON shape.
func exportRowToResponse(r domain.ExportRow) ExportRow {
	row := ExportRow{
		TripId:      r.TripID,
		OperatorId:  r.OperatorID,
		Destination: r.Destination,
		StartDate:   openapi_types.Date{Time: r.StartDate.UTC()},
		EndDate:     openapi_types.Date{Time: r.EndDate.UTC()},
		FlightPrice: r.FlightPrice,
		Kind:        string(r.Kind),
		TripStatus:  string(r.TripStatus),
	}
	if r.HasBooking() {
		id := r.BookingID
		name := r.PassengerName
		n := r.Passengers
		status := string(r.BookingStatus)
		row.BookingId = &id
		row.PassengerName = &name
		row.Passengers = &n
		row.BookingStatus = &status
		row.CancelledAt = r.CancelledAt
	}
	return row
}

// exportRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Booking columns are empty for trips without bookings.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	rec := []string{
		r.TripID.String(),
		r.OperatorID,
		r.Destination,
		r.StartDate.UTC().Format(time.DateOnly),
		r.EndDate.UTC().Format(time.DateOnly),
		strconv.FormatFloat(r.FlightPrice, 'f', 2, 64),
		string(r.Kind),
		string(r.TripStatus),
		"", "", "", "", "",
	}
	if r.HasBooking() {
		rec[8] = r.BookingID.String()
		rec[9] = r.PassengerName
		rec[10] = strconv.Itoa(r.Passengers)
		rec[11] = string(r.BookingStatus)
		rec[12] = formatOptionalTime(r.CancelledAt)
	}
	return rec
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
