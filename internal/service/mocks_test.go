package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
	"github.com/pkordes/trip-catalog/backend/internal/events"
	"github.com/pkordes/trip-catalog/backend/internal/repo"
	"github.com/pkordes/trip-catalog/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
// Calling a method whose field is nil panics, which fails the test loudly
// when a code path touches the datastore unexpectedly.
type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context) ([]domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockBookingRepo is a hand-written test double for repo.BookingRepo.
type mockBookingRepo struct {
	create        func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listByTripID  func(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
	markCancelled func(ctx context.Context, id uuid.UUID) (domain.Booking, bool, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockBookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (domain.Booking, bool, error) {
	return m.markCancelled(ctx, id)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

// recordingCanceller records every booking it is asked to cancel.
// fail, when set, decides per booking whether to return an error.
type recordingCanceller struct {
	mu     sync.Mutex
	called []uuid.UUID
	fail   func(b domain.Booking) error
}

func (c *recordingCanceller) Cancel(_ context.Context, b domain.Booking) error {
	c.mu.Lock()
	c.called = append(c.called, b.ID)
	c.mu.Unlock()
	if c.fail != nil {
		return c.fail(b)
	}
	return nil
}

var _ service.BookingCanceller = (*recordingCanceller)(nil)

// mockCascader is a test double for service.BookingCascader.
type mockCascader struct {
	calls     []uuid.UUID
	cancelAll func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockCascader) CancelAll(ctx context.Context, tripID uuid.UUID) error {
	m.calls = append(m.calls, tripID)
	if m.cancelAll == nil {
		return nil
	}
	return m.cancelAll(ctx, tripID)
}

var _ service.BookingCascader = (*mockCascader)(nil)

// recordingPublisher captures events instead of sending them.
type recordingPublisher struct {
	offered          []domain.Trip
	cancelled        []domain.Trip
	bookingCancelled []domain.Booking
	err              error
}

func (p *recordingPublisher) TripOffered(_ context.Context, t domain.Trip) error {
	p.offered = append(p.offered, t)
	return p.err
}
func (p *recordingPublisher) TripCancelled(_ context.Context, t domain.Trip) error {
	p.cancelled = append(p.cancelled, t)
	return p.err
}
func (p *recordingPublisher) BookingCancelled(_ context.Context, b domain.Booking) error {
	p.bookingCancelled = append(p.bookingCancelled, b)
	return p.err
}

var _ events.Publisher = (*recordingPublisher)(nil)
