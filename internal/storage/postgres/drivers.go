package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// UpsertDriverProfile inserts or replaces a driver's profile and its
// documents in one transaction.
func (s *Store) UpsertDriverProfile(ctx context.Context, p models.DriverProfile) (models.DriverProfile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.DriverProfile{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO driver_profiles (driver_id, license_number, aadhar_number, pan_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (driver_id) DO UPDATE SET
			license_number = EXCLUDED.license_number,
			aadhar_number = EXCLUDED.aadhar_number,
			pan_number = EXCLUDED.pan_number,
			updated_at = EXCLUDED.updated_at`
	if _, err := tx.Exec(ctx, query,
		p.DriverID, p.LicenseNumber, p.AadharNumber, p.PanNumber, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return models.DriverProfile{}, err
	}
	if err := replaceDocuments(ctx, tx, p.DriverID, p.Documents); err != nil {
		return models.DriverProfile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.DriverProfile{}, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// GetDriverProfile fetches a driver's profile and documents.
func (s *Store) GetDriverProfile(ctx context.Context, driverID string) (models.DriverProfile, error) {
	const query = `
		SELECT driver_id, license_number, aadhar_number, pan_number, created_at, updated_at
		FROM driver_profiles WHERE driver_id = $1`

	var p models.DriverProfile
	err := s.pool.QueryRow(ctx, query, driverID).Scan(
		&p.DriverID, &p.LicenseNumber, &p.AadharNumber, &p.PanNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DriverProfile{}, storage.ErrNotFound
		}
		return models.DriverProfile{}, err
	}
	if p.Documents, err = s.documents(ctx, p.DriverID); err != nil {
		return models.DriverProfile{}, err
	}
	return p, nil
}

// ListDriverProfiles returns every submitted profile with documents.
func (s *Store) ListDriverProfiles(ctx context.Context) ([]models.DriverProfile, error) {
	const query = `
		SELECT driver_id, license_number, aadhar_number, pan_number, created_at, updated_at
		FROM driver_profiles ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DriverProfile
	for rows.Next() {
		var p models.DriverProfile
		if err := rows.Scan(&p.DriverID, &p.LicenseNumber, &p.AadharNumber, &p.PanNumber,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Documents, err = s.documents(ctx, out[i].DriverID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CreateVehicle inserts a vehicle and its documents in one transaction.
func (s *Store) CreateVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO vehicles (id, driver_id, vehicle_type, registration_number, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.Exec(ctx, query,
		v.ID, v.DriverID, v.VehicleType, v.RegistrationNumber, v.Model, v.CreatedAt, v.UpdatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Vehicle{}, storage.ErrAlreadyExists
		}
		return models.Vehicle{}, err
	}
	if err := replaceDocuments(ctx, tx, v.ID, v.Documents); err != nil {
		return models.Vehicle{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Vehicle{}, fmt.Errorf("commit: %w", err)
	}
	return v, nil
}

// ListVehicles returns vehicles with documents, optionally scoped to one
// driver.
func (s *Store) ListVehicles(ctx context.Context, driverID string) ([]models.Vehicle, error) {
	query := `SELECT id, driver_id, vehicle_type, registration_number, model, created_at, updated_at FROM vehicles`
	var args []any
	if driverID != "" {
		query += ` WHERE driver_id = $1`
		args = append(args, driverID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.DriverID, &v.VehicleType, &v.RegistrationNumber,
			&v.Model, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Documents, err = s.documents(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateVehicle replaces a vehicle row and its documents.
func (s *Store) UpdateVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE vehicles SET vehicle_type = $2, registration_number = $3, model = $4, updated_at = $5
		WHERE id = $1`
	tag, err := tx.Exec(ctx, query, v.ID, v.VehicleType, v.RegistrationNumber, v.Model, v.UpdatedAt)
	if err != nil {
		return models.Vehicle{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Vehicle{}, storage.ErrNotFound
	}
	if err := replaceDocuments(ctx, tx, v.ID, v.Documents); err != nil {
		return models.Vehicle{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Vehicle{}, fmt.Errorf("commit: %w", err)
	}
	return v, nil
}

func (s *Store) documents(ctx context.Context, ownerID string) ([]models.Document, error) {
	const query = `
		SELECT doc_type, number, status, remark, reviewed_at
		FROM documents WHERE owner_id = $1 ORDER BY doc_type`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.Type, &d.Number, &d.Status, &d.Remark, &d.ReviewedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func replaceDocuments(ctx context.Context, tx pgx.Tx, ownerID string, docs []models.Document) error {
	if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE owner_id = $1`, ownerID); err != nil {
		return err
	}
	const query = `
		INSERT INTO documents (owner_id, doc_type, number, status, remark, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, d := range docs {
		if _, err := tx.Exec(ctx, query, ownerID, d.Type, d.Number, d.Status, d.Remark, d.ReviewedAt); err != nil {
			return err
		}
	}
	return nil
}
