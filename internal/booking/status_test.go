package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.BookingStatus }{
		{models.BookingPending, models.BookingAccepted},
		{models.BookingAccepted, models.BookingInProgress},
		{models.BookingInProgress, models.BookingCompleted},
		{models.BookingPending, models.BookingCancelled},
		{models.BookingAccepted, models.BookingCancelled},
		{models.BookingInProgress, models.BookingCancelled},
		{models.BookingPending, models.BookingPending},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to models.BookingStatus }{
		{models.BookingPending, models.BookingInProgress},
		{models.BookingPending, models.BookingCompleted},
		{models.BookingAccepted, models.BookingCompleted},
		{models.BookingCompleted, models.BookingCancelled},
		{models.BookingCancelled, models.BookingAccepted},
		{models.BookingCompleted, models.BookingPending},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s denied", tc.from, tc.to)
		}
	}
}

func TestApplyBindsDriverOnce(t *testing.T) {
	b := &models.Booking{Status: models.BookingPending}
	now := time.Now()
	driver := "driver-1"

	if err := Apply(b, models.BookingAccepted, &driver, now); err != nil {
		t.Fatalf("Apply accept: %v", err)
	}
	if b.DriverID == nil || *b.DriverID != driver {
		t.Fatalf("driver not bound: %v", b.DriverID)
	}
	if b.AcceptedAt == nil {
		t.Fatal("AcceptedAt not stamped")
	}

	if err := Apply(b, models.BookingInProgress, nil, now); err != nil {
		t.Fatalf("Apply in_progress: %v", err)
	}
	if err := Apply(b, models.BookingCompleted, nil, now); err != nil {
		t.Fatalf("Apply completed: %v", err)
	}
	if b.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped")
	}
}

func TestApplyAcceptWithoutDriver(t *testing.T) {
	b := &models.Booking{Status: models.BookingPending}
	err := Apply(b, models.BookingAccepted, nil, time.Now())
	if !errors.Is(err, ErrDriverRequired) {
		t.Fatalf("expected ErrDriverRequired, got %v", err)
	}
	if b.Status != models.BookingPending {
		t.Fatalf("booking mutated on failed accept: %s", b.Status)
	}
}

func TestApplyRejectsInvalidTransition(t *testing.T) {
	b := &models.Booking{Status: models.BookingPending}
	err := Apply(b, models.BookingCompleted, nil, time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	b.Status = models.BookingCancelled
	if err := Apply(b, models.BookingAccepted, nil, time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected terminal state to refuse transitions, got %v", err)
	}
}

func TestApplySameStatusIsNoOp(t *testing.T) {
	now := time.Now()
	b := &models.Booking{Status: models.BookingAccepted, UpdatedAt: now}

	if err := Apply(b, models.BookingAccepted, nil, now.Add(time.Hour)); err != nil {
		t.Fatalf("Apply same status: %v", err)
	}
	if !b.UpdatedAt.Equal(now) {
		t.Fatal("no-op update should not restamp UpdatedAt")
	}
}
