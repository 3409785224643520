package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
	"github.com/pkordes/trip-catalog/backend/internal/service"
)

func TestExportService_Export(t *testing.T) {
	withBookings := activeTrip("op1")
	empty := activeTrip("op2")
	bookings := bookingsFor(withBookings.ID, 2)

	trips := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) {
			return []domain.Trip{withBookings, empty}, nil
		},
	}
	svc := service.NewExportService(trips, listingRepo(bookings))

	rows, err := svc.Export(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, rows, 3, "one row per booking plus one for the trip without bookings")
	assert.Equal(t, bookings[0].ID, rows[0].BookingID)
	assert.Equal(t, bookings[1].ID, rows[1].BookingID)
	assert.Equal(t, withBookings.Destination, rows[1].Destination)
	assert.Equal(t, empty.ID, rows[2].TripID)
	assert.False(t, rows[2].HasBooking())
	assert.Equal(t, domain.TripKindTripOnly, rows[2].Kind)
}

func TestExportService_Export_FiltersByOperator(t *testing.T) {
	mine := activeTrip("op1")
	theirs := activeTrip("op2")
	trips := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) {
			return []domain.Trip{mine, theirs}, nil
		},
	}
	svc := service.NewExportService(trips, listingRepo(nil))

	rows, err := svc.Export(context.Background(), "op2")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, theirs.ID, rows[0].TripID)
}

func TestExportService_Export_Empty(t *testing.T) {
	trips := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewExportService(trips, &mockBookingRepo{})

	rows, err := svc.Export(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_BookingError(t *testing.T) {
	repoErr := errors.New("timeout")
	trips := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) {
			return []domain.Trip{activeTrip("op1")}, nil
		},
	}
	bookings := &mockBookingRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Booking, error) {
			return nil, repoErr
		},
	}
	svc := service.NewExportService(trips, bookings)

	_, err := svc.Export(context.Background(), "")

	assert.ErrorIs(t, err, repoErr)
}
