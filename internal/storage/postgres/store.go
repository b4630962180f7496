// Package postgres provides pgx-backed persistence with inline migrations.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for all entity types.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'rider',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			rider_id TEXT NOT NULL,
			driver_id TEXT,
			pickup_address TEXT NOT NULL,
			dropoff_address TEXT NOT NULL,
			scheduled_date TEXT NOT NULL DEFAULT '',
			scheduled_time TEXT NOT NULL DEFAULT '',
			vehicle_type TEXT NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
			payment_method TEXT NOT NULL DEFAULT '',
			fare JSONB,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			accepted_at TIMESTAMPTZ,
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			cancelled_at TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS bookings_rider_idx ON bookings (rider_id);`,
		`CREATE INDEX IF NOT EXISTS bookings_driver_idx ON bookings (driver_id);`,
		`CREATE INDEX IF NOT EXISTS bookings_status_idx ON bookings (status);`,
		`CREATE TABLE IF NOT EXISTS driver_profiles (
			driver_id TEXT PRIMARY KEY,
			license_number TEXT NOT NULL DEFAULT '',
			aadhar_number TEXT NOT NULL DEFAULT '',
			pan_number TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			vehicle_type TEXT NOT NULL,
			registration_number TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS vehicles_driver_idx ON vehicles (driver_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS vehicles_registration_idx ON vehicles (lower(registration_number));`,
		`CREATE TABLE IF NOT EXISTS documents (
			owner_id TEXT NOT NULL,
			doc_type TEXT NOT NULL,
			number TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			remark TEXT NOT NULL DEFAULT '',
			reviewed_at TIMESTAMPTZ,
			PRIMARY KEY (owner_id, doc_type)
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			booking_id TEXT UNIQUE NOT NULL,
			rider_id TEXT NOT NULL,
			driver_id TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			commission DOUBLE PRECISION NOT NULL,
			driver_earning DOUBLE PRECISION NOT NULL,
			payment_method TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
