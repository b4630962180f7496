package jsonfile

import (
	"context"
	"strings"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// cloneDocuments copies a document slice so values crossing the store
// boundary never share a backing array with store-internal state.
func cloneDocuments(docs []models.Document) []models.Document {
	if docs == nil {
		return nil
	}
	out := make([]models.Document, len(docs))
	copy(out, docs)
	return out
}

// UpsertDriverProfile inserts or replaces a driver's profile.
func (s *Store) UpsertDriverProfile(_ context.Context, p models.DriverProfile) (models.DriverProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := p
	stored.Documents = cloneDocuments(p.Documents)

	replaced := -1
	for i := range s.profiles {
		if s.profiles[i].DriverID == p.DriverID {
			replaced = i
			break
		}
	}
	var prev models.DriverProfile
	if replaced >= 0 {
		prev = s.profiles[replaced]
		s.profiles[replaced] = stored
	} else {
		s.profiles = append(s.profiles, stored)
	}
	if err := s.flush(profilesFile, s.profiles); err != nil {
		if replaced >= 0 {
			s.profiles[replaced] = prev
		} else {
			s.profiles = s.profiles[:len(s.profiles)-1]
		}
		return models.DriverProfile{}, err
	}
	return p, nil
}

// GetDriverProfile fetches a driver's profile by driver id.
func (s *Store) GetDriverProfile(_ context.Context, driverID string) (models.DriverProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.DriverID == driverID {
			p.Documents = cloneDocuments(p.Documents)
			return p, nil
		}
	}
	return models.DriverProfile{}, storage.ErrNotFound
}

// ListDriverProfiles returns every submitted profile.
func (s *Store) ListDriverProfiles(_ context.Context) ([]models.DriverProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DriverProfile, len(s.profiles))
	copy(out, s.profiles)
	for i := range out {
		out[i].Documents = cloneDocuments(out[i].Documents)
	}
	return out, nil
}

// CreateVehicle appends a vehicle.
func (s *Store) CreateVehicle(_ context.Context, v models.Vehicle) (models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.vehicles {
		if strings.EqualFold(existing.RegistrationNumber, v.RegistrationNumber) {
			return models.Vehicle{}, storage.ErrAlreadyExists
		}
	}
	stored := v
	stored.Documents = cloneDocuments(v.Documents)
	s.vehicles = append(s.vehicles, stored)
	if err := s.flush(vehiclesFile, s.vehicles); err != nil {
		s.vehicles = s.vehicles[:len(s.vehicles)-1]
		return models.Vehicle{}, err
	}
	return v, nil
}

// ListVehicles returns vehicles, optionally scoped to one driver.
func (s *Store) ListVehicles(_ context.Context, driverID string) ([]models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Vehicle
	for _, v := range s.vehicles {
		if driverID == "" || v.DriverID == driverID {
			v.Documents = cloneDocuments(v.Documents)
			out = append(out, v)
		}
	}
	return out, nil
}

// UpdateVehicle replaces a vehicle record by id.
func (s *Store) UpdateVehicle(_ context.Context, v models.Vehicle) (models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.vehicles {
		if s.vehicles[i].ID != v.ID {
			continue
		}
		stored := v
		stored.Documents = cloneDocuments(v.Documents)
		prev := s.vehicles[i]
		s.vehicles[i] = stored
		if err := s.flush(vehiclesFile, s.vehicles); err != nil {
			s.vehicles[i] = prev
			return models.Vehicle{}, err
		}
		return v, nil
	}
	return models.Vehicle{}, storage.ErrNotFound
}
