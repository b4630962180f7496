// Package jsonfile provides file-backed persistence: one JSON array per
// entity type under a data directory. Every mutation happens behind a single
// lock and is flushed atomically (temp file + rename), so concurrent writers
// cannot lose updates.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const (
	usersFile        = "users.json"
	bookingsFile     = "bookings.json"
	profilesFile     = "driver_profiles.json"
	vehiclesFile     = "vehicles.json"
	transactionsFile = "transactions.json"
)

// Store keeps all collections in memory and mirrors them to JSON files.
type Store struct {
	dir string

	mu           sync.Mutex
	users        []models.User
	bookings     []models.Booking
	profiles     []models.DriverProfile
	vehicles     []models.Vehicle
	transactions []models.Transaction
}

// Open loads (or creates) the data directory and reads any existing files.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir}

	// Users go through userRecord so the password hash survives the
	// model's json:"-" exclusion.
	var users []userRecord
	if err := s.read(usersFile, &users); err != nil {
		return nil, err
	}
	s.users = decodeUsers(users)

	for _, load := range []struct {
		name string
		dest any
	}{
		{bookingsFile, &s.bookings},
		{profilesFile, &s.profiles},
		{vehiclesFile, &s.vehicles},
		{transactionsFile, &s.transactions},
	} {
		if err := s.read(load.name, load.dest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close is a no-op; every mutation is flushed synchronously.
func (s *Store) Close() {}

func (s *Store) read(name string, dest any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// flush writes one collection atomically. Callers must hold s.mu.
func (s *Store) flush(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
