// Package repo contains all database access logic for the Trip Catalog API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, so services can be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips ordered by start_date ascending.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of trips and the total number of trips.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update persists the status of an existing trip and returns the updated
	// record. Every other column is immutable after creation.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, operator_id, destination, start_date, end_date, flight_price,
		kind, staying_night_price, extra_luggage_price_per_kilo, premium_food_price,
		status, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (operator_id, destination, start_date, end_date, flight_price,
			kind, staying_night_price, extra_luggage_price_per_kilo, premium_food_price, status)
		VALUES (@operator_id, @destination, @start_date, @end_date, @flight_price,
			@kind, @staying_night_price, @extra_luggage, @premium_food, @status)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"operator_id":         trip.OperatorID,
		"destination":         trip.Destination,
		"start_date":          pgtype.Date{Time: trip.StartDate, Valid: true},
		"end_date":            pgtype.Date{Time: trip.EndDate, Valid: true},
		"flight_price":        trip.FlightPrice,
		"kind":                string(trip.Kind()),
		"staying_night_price": trip.StayingNightPrice(),
		"status":              string(trip.Status),
	}
	// Only the column belonging to the trip's pricing variant is written;
	// the other stays NULL.
	switch p := trip.Pricing.(type) {
	case domain.WithStayPricing:
		args["extra_luggage"] = p.ExtraLuggagePricePerKilo
		args["premium_food"] = nil
	case domain.TripOnlyPricing:
		args["extra_luggage"] = nil
		args["premium_food"] = p.PremiumFoodPrice
	default:
		args["extra_luggage"] = nil
		args["premium_food"] = 0.0
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w: %v", domain.ErrInvalidTripParameters, err)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns every trip, earliest departure first.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips ORDER BY start_date, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

// ListPaged returns one page of trips plus the total row count.
// The count comes from a window function so both are read in one round trip.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `, count(*) OVER () AS total
		FROM trips
		ORDER BY start_date, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var (
		trips []domain.Trip
		total int64
	)
	for rows.Next() {
		t, err := scanTrip(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	// A page past the end returns no rows, so the window count is unavailable.
	if len(trips) == 0 && p.Offset() > 0 {
		if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
		}
	}

	return trips, total, nil
}

// Update writes the trip's status and refreshes updated_at.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status     = @status,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": trip.ID, "status": string(trip.Status)})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip, rebuilding the
// pricing variant from the kind column. extra receives any trailing columns.
func scanTrip(s scanner, extra ...any) (domain.Trip, error) {
	var (
		t            domain.Trip
		id           pgtype.UUID
		start, end   pgtype.Date
		kind, status string
		nightPrice   float64
		extraLuggage pgtype.Float8
		premiumFood  pgtype.Float8
	)

	dest := []any{
		&id, &t.OperatorID, &t.Destination, &start, &end, &t.FlightPrice,
		&kind, &nightPrice, &extraLuggage, &premiumFood,
		&status, &t.CreatedAt, &t.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	t.Status = domain.TripStatus(status)
	switch domain.TripKind(kind) {
	case domain.TripKindWithStay:
		t.Pricing = domain.WithStayPricing{
			StayingNightPrice:        nightPrice,
			ExtraLuggagePricePerKilo: extraLuggage.Float64,
		}
	default:
		t.Pricing = domain.TripOnlyPricing{PremiumFoodPrice: premiumFood.Float64}
	}

	return t, nil
}

// SQLSTATE codes the trip schema can raise on bad input.
const (
	sqlStateCheckViolation    = "23514"
	sqlStateNumericOutOfRange = "22003"
)

// isConstraintViolation reports whether err is a Postgres CHECK violation or a
// numeric overflow, both of which mean the caller sent values the schema rejects.
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateCheckViolation || pgErr.Code == sqlStateNumericOutOfRange
}
