package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
	"github.com/pkordes/trip-catalog/backend/internal/repo"
)

// ExportService assembles a flat export of all trips and their bookings.
type ExportService struct {
	trips    repo.TripRepo
	bookings repo.BookingRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, bookings repo.BookingRepo) *ExportService {
	return &ExportService{trips: trips, bookings: bookings}
}

// Export returns one ExportRow per booking across all trips, in trip order.
// When operatorID is non-empty only that operator's trips are included.
// Trips with no bookings contribute one row with empty booking fields.
func (s *ExportService) Export(ctx context.Context, operatorID string) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range trips {
		if operatorID != "" && t.OperatorID != operatorID {
			continue
		}
		bookings, err := s.bookings.ListByTripID(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: trip %s: %w", t.ID, err)
		}

		base := tripRow(t)
		if len(bookings) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, b := range bookings {
			row := base
			row.BookingID = b.ID
			row.PassengerName = b.PassengerName
			row.Passengers = b.Passengers
			row.BookingStatus = b.Status
			row.CancelledAt = b.CancelledAt
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func tripRow(t domain.Trip) domain.ExportRow {
	return domain.ExportRow{
		TripID:      t.ID,
		OperatorID:  t.OperatorID,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		FlightPrice: t.FlightPrice,
		Kind:        t.Kind(),
		TripStatus:  t.Status,
	}
}
