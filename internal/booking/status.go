// Package booking enforces the ride status state machine:
// pending → accepted → in_progress → completed, with cancellation allowed
// from any non-terminal state. The transition rules are applied server-side
// on every status update.
package booking

import (
	"errors"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

// ErrInvalidTransition is returned when a status change violates the
// transition table.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// ErrDriverRequired is returned when a booking is moved to accepted without
// a driver to bind.
var ErrDriverRequired = errors.New("accepting a booking requires a driver")

var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingAccepted, models.BookingCancelled},
	models.BookingAccepted:   {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress: {models.BookingCompleted, models.BookingCancelled},
	// Terminal states.
	models.BookingCompleted: {},
	models.BookingCancelled: {},
}

// CanTransition reports whether from → to is allowed. A same-status update
// is treated as a no-op and allowed.
func CanTransition(from, to models.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Apply moves b to the target status, stamping UpdatedAt and the per-state
// timestamp on first entry. An accept transition binds driverID; the driver
// is bound exactly once and never rebound.
func Apply(b *models.Booking, to models.BookingStatus, driverID *string, now time.Time) error {
	if b == nil {
		return errors.New("booking is nil")
	}
	if !CanTransition(b.Status, to) {
		return ErrInvalidTransition
	}
	if b.Status == to {
		return nil
	}

	if to == models.BookingAccepted {
		if b.DriverID == nil {
			if driverID == nil || *driverID == "" {
				return ErrDriverRequired
			}
			id := *driverID
			b.DriverID = &id
		}
	}

	b.Status = to
	b.UpdatedAt = now

	switch to {
	case models.BookingAccepted:
		if b.AcceptedAt == nil {
			t := now
			b.AcceptedAt = &t
		}
	case models.BookingInProgress:
		if b.StartedAt == nil {
			t := now
			b.StartedAt = &t
		}
	case models.BookingCompleted:
		if b.CompletedAt == nil {
			t := now
			b.CompletedAt = &t
		}
	case models.BookingCancelled:
		if b.CancelledAt == nil {
			t := now
			b.CancelledAt = &t
		}
	}
	return nil
}

// Terminal reports whether s is a final state.
func Terminal(s models.BookingStatus) bool {
	return s == models.BookingCompleted || s == models.BookingCancelled
}
