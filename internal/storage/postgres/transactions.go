package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// CreateTransaction records a settlement; the unique booking_id constraint
// guarantees a booking is settled at most once.
func (s *Store) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	const query = `
		INSERT INTO transactions (id, booking_id, rider_id, driver_id, amount, commission, driver_earning, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.BookingID, t.RiderID, t.DriverID,
		t.Amount, t.Commission, t.DriverEarning, t.PaymentMethod, t.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Transaction{}, storage.ErrAlreadyExists
		}
		return models.Transaction{}, err
	}
	return t, nil
}

// ListTransactions returns every settlement, newest first.
func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	const query = `
		SELECT id, booking_id, rider_id, driver_id, amount, commission, driver_earning, payment_method, created_at
		FROM transactions ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.BookingID, &t.RiderID, &t.DriverID,
			&t.Amount, &t.Commission, &t.DriverEarning, &t.PaymentMethod, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
