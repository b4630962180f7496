package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nomadcabs/nomad-cabs-be/internal/fare"
	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

const bookingColumns = `id, rider_id, driver_id, pickup_address, dropoff_address, scheduled_date, scheduled_time,
	vehicle_type, distance_km, payment_method, fare, status, created_at, updated_at,
	accepted_at, started_at, completed_at, cancelled_at`

// CreateBooking inserts a new booking row.
func (s *Store) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	fareJSON, err := marshalFare(b.Fare)
	if err != nil {
		return models.Booking{}, err
	}
	const query = `
		INSERT INTO bookings (id, rider_id, driver_id, pickup_address, dropoff_address, scheduled_date, scheduled_time,
			vehicle_type, distance_km, payment_method, fare, status, created_at, updated_at,
			accepted_at, started_at, completed_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + bookingColumns

	row := s.pool.QueryRow(ctx, query,
		b.ID, b.RiderID, b.DriverID, b.PickupAddress, b.DropoffAddress, b.ScheduledDate, b.ScheduledTime,
		b.VehicleType, b.DistanceKm, b.PaymentMethod, fareJSON, b.Status, b.CreatedAt, b.UpdatedAt,
		b.AcceptedAt, b.StartedAt, b.CompletedAt, b.CancelledAt,
	)
	return scanBooking(row)
}

// GetBooking fetches a booking by id.
func (s *Store) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

// ListBookings returns bookings matching the filter, newest first.
func (s *Store) ListBookings(ctx context.Context, f storage.BookingFilter) ([]models.Booking, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, cond+" $"+strconv.Itoa(len(args)))
	}
	if f.RiderID != "" {
		add("rider_id =", f.RiderID)
	}
	if f.DriverID != "" {
		add("driver_id =", f.DriverID)
	}
	if f.Status != "" {
		add("status =", f.Status)
	}
	if f.UnassignedOnly {
		conds = append(conds, "driver_id IS NULL")
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBooking applies a mutation inside a transaction, locking the row
// (SELECT ... FOR UPDATE) so concurrent status updates serialize instead of
// overwriting each other.
func (s *Store) UpdateBooking(ctx context.Context, id string, apply func(*models.Booking) error) (models.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Booking{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		return models.Booking{}, err
	}

	if err := apply(&b); err != nil {
		return models.Booking{}, err
	}

	fareJSON, err := marshalFare(b.Fare)
	if err != nil {
		return models.Booking{}, err
	}
	const query = `
		UPDATE bookings SET driver_id = $2, fare = $3, status = $4, updated_at = $5,
			accepted_at = $6, started_at = $7, completed_at = $8, cancelled_at = $9
		WHERE id = $1`
	if _, err := tx.Exec(ctx, query,
		b.ID, b.DriverID, fareJSON, b.Status, b.UpdatedAt,
		b.AcceptedAt, b.StartedAt, b.CompletedAt, b.CancelledAt,
	); err != nil {
		return models.Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Booking{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

func marshalFare(f *fare.Breakdown) ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode fare: %w", err)
	}
	return raw, nil
}

func scanBooking(row pgx.Row) (models.Booking, error) {
	var (
		b        models.Booking
		fareJSON []byte
	)
	err := row.Scan(&b.ID, &b.RiderID, &b.DriverID, &b.PickupAddress, &b.DropoffAddress,
		&b.ScheduledDate, &b.ScheduledTime, &b.VehicleType, &b.DistanceKm, &b.PaymentMethod,
		&fareJSON, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&b.AcceptedAt, &b.StartedAt, &b.CompletedAt, &b.CancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, storage.ErrNotFound
		}
		return models.Booking{}, err
	}
	if len(fareJSON) > 0 {
		var f fare.Breakdown
		if err := json.Unmarshal(fareJSON, &f); err != nil {
			return models.Booking{}, fmt.Errorf("decode fare: %w", err)
		}
		b.Fare = &f
	}
	return b, nil
}
