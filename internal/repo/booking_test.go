package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
	"github.com/pkordes/trip-catalog/backend/internal/repo"
	"github.com/pkordes/trip-catalog/backend/testutil"
)

// newBookingTestRepos returns both repos on one rolled-back transaction,
// since every booking needs a parent trip.
func newBookingTestRepos(t *testing.T) (repo.TripRepo, repo.BookingRepo) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repo.NewTripRepo(tx), repo.NewBookingRepo(tx)
}

func createTrip(t *testing.T, trips repo.TripRepo) domain.Trip {
	t.Helper()
	trip, err := trips.Create(context.Background(), tripFixture())
	require.NoError(t, err)
	return trip
}

func TestBookingRepo_CreateAndGet(t *testing.T) {
	trips, bookings := newBookingTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, trips)

	created, err := bookings.Create(ctx, domain.Booking{TripID: trip.ID, PassengerName: "Ana", Passengers: 2})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, created.Status)
	assert.Nil(t, created.CancelledAt)

	got, err := bookings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, 2, got.Passengers)
}

func TestBookingRepo_Create_UnknownTrip(t *testing.T) {
	_, bookings := newBookingTestRepos(t)

	_, err := bookings.Create(context.Background(), domain.Booking{TripID: uuid.New(), PassengerName: "Ana", Passengers: 1})

	// Foreign key violation.
	assert.Error(t, err)
}

func TestBookingRepo_GetByID_NotFound(t *testing.T) {
	_, bookings := newBookingTestRepos(t)

	_, err := bookings.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_ListByTripID(t *testing.T) {
	trips, bookings := newBookingTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, trips)
	other := createTrip(t, trips)

	var want []uuid.UUID
	for _, name := range []string{"Ana", "Rui", "Eva"} {
		b, err := bookings.Create(ctx, domain.Booking{TripID: trip.ID, PassengerName: name, Passengers: 1})
		require.NoError(t, err)
		want = append(want, b.ID)
	}
	_, err := bookings.Create(ctx, domain.Booking{TripID: other.ID, PassengerName: "Zé", Passengers: 1})
	require.NoError(t, err)

	got, err := bookings.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)

	ids := make([]uuid.UUID, len(got))
	for i, b := range got {
		ids[i] = b.ID
		assert.Equal(t, trip.ID, b.TripID)
	}
	assert.ElementsMatch(t, want, ids)
}

func TestBookingRepo_ListByTripID_None(t *testing.T) {
	trips, bookings := newBookingTestRepos(t)

	got, err := bookings.ListByTripID(context.Background(), createTrip(t, trips).ID)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookingRepo_MarkCancelled(t *testing.T) {
	trips, bookings := newBookingTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, trips)

	b, err := bookings.Create(ctx, domain.Booking{TripID: trip.ID, PassengerName: "Ana", Passengers: 1})
	require.NoError(t, err)

	first, changed, err := bookings.MarkCancelled(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.BookingStatusCancelled, first.Status)
	require.NotNil(t, first.CancelledAt)

	// A second call leaves the row alone and reports no transition.
	second, changed, err := bookings.MarkCancelled(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.BookingStatusCancelled, second.Status)
	require.NotNil(t, second.CancelledAt)
	assert.True(t, first.CancelledAt.Equal(*second.CancelledAt))
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt), "updated_at must not move on a repeat cancel")
}

func TestBookingRepo_MarkCancelled_NotFound(t *testing.T) {
	_, bookings := newBookingTestRepos(t)

	_, _, err := bookings.MarkCancelled(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
