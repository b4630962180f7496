package jsonfile

import (
	"context"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// CreateBooking appends a booking.
func (s *Store) CreateBooking(_ context.Context, b models.Booking) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if existing.ID == b.ID {
			return models.Booking{}, storage.ErrAlreadyExists
		}
	}
	s.bookings = append(s.bookings, b)
	if err := s.flush(bookingsFile, s.bookings); err != nil {
		s.bookings = s.bookings[:len(s.bookings)-1]
		return models.Booking{}, err
	}
	return b, nil
}

// GetBooking fetches a booking by id.
func (s *Store) GetBooking(_ context.Context, id string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Booking{}, storage.ErrNotFound
}

// ListBookings returns bookings matching the filter, newest first.
func (s *Store) ListBookings(_ context.Context, f storage.BookingFilter) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for i := len(s.bookings) - 1; i >= 0; i-- {
		b := s.bookings[i]
		if matches(b, f) {
			out = append(out, b)
		}
	}
	return out, nil
}

func matches(b models.Booking, f storage.BookingFilter) bool {
	if f.RiderID != "" && b.RiderID != f.RiderID {
		return false
	}
	if f.DriverID != "" && (b.DriverID == nil || *b.DriverID != f.DriverID) {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.UnassignedOnly && b.DriverID != nil {
		return false
	}
	return true
}

// UpdateBooking applies a mutation to the booking with the given id while
// holding the store lock, so the read-modify-write cannot interleave with
// another writer. The collection is untouched if apply fails.
func (s *Store) UpdateBooking(_ context.Context, id string, apply func(*models.Booking) error) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookings {
		if s.bookings[i].ID != id {
			continue
		}
		updated := s.bookings[i]
		if err := apply(&updated); err != nil {
			return models.Booking{}, err
		}
		prev := s.bookings[i]
		s.bookings[i] = updated
		if err := s.flush(bookingsFile, s.bookings); err != nil {
			s.bookings[i] = prev
			return models.Booking{}, err
		}
		return updated, nil
	}
	return models.Booking{}, storage.ErrNotFound
}
