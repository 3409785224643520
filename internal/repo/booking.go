package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListByTripID returns all bookings of a trip ordered by created_at ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)

	// MarkCancelled moves a CONFIRMED booking to CANCELLED and stamps
	// cancelled_at. The bool reports whether this call made the transition;
	// a booking that is already cancelled is returned unchanged with false.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	MarkCancelled(ctx context.Context, id uuid.UUID) (domain.Booking, bool, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, trip_id, passenger_name, passengers, status, created_at, updated_at, cancelled_at`

func (r *pgBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (trip_id, passenger_name, passengers, status)
		VALUES (@trip_id, @passenger_name, @passengers, @status)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"trip_id":        booking.TripID,
		"passenger_name": booking.PassengerName,
		"passengers":     booking.Passengers,
		"status":         string(domain.BookingStatusConfirmed),
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListByTripID: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByTripID: rows: %w", err)
	}
	return bookings, nil
}

// MarkCancelled only updates a row that is not cancelled yet, so two callers
// racing on the same booking produce a single transition.
func (r *pgBookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (domain.Booking, bool, error) {
	const q = `
		UPDATE bookings
		SET status       = @status,
		    cancelled_at = now(),
		    updated_at   = now()
		WHERE id = @id AND status <> @status
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{"id": id, "status": string(domain.BookingStatusCancelled)}
	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, false, fmt.Errorf("repo.BookingRepo.MarkCancelled: %w", err)
	}

	// No row updated: either the booking is gone or someone else cancelled it.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, false, fmt.Errorf("repo.BookingRepo.MarkCancelled: %w", err)
	}
	return current, false, nil
}

// scanBooking maps a single database row into a domain.Booking.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b           domain.Booking
		id, tripID  pgtype.UUID
		status      string
		cancelledAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &tripID, &b.PassengerName, &b.Passengers, &status,
		&b.CreatedAt, &b.UpdatedAt, &cancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(tripID.Bytes)
	b.Status = domain.BookingStatus(status)
	if cancelledAt.Valid {
		ca := cancelledAt.Time
		b.CancelledAt = &ca
	}
	return b, nil
}
