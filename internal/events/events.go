// Package events publishes booking lifecycle changes to a RabbitMQ topic
// exchange so downstream consumers (settlement, analytics) can follow the
// state machine without polling.
package events

import (
	"context"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

const (
	// Exchange is the topic exchange all booking events go through.
	Exchange = "booking_events"

	routingCreated      = "booking.created"
	routingStatusPrefix = "booking.status."
)

// Publisher emits booking lifecycle events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	BookingCreated(ctx context.Context, b models.Booking)
	BookingStatusChanged(ctx context.Context, b models.Booking)
	Close() error
}

// Noop is the publisher used when no broker is configured.
type Noop struct{}

func (Noop) BookingCreated(context.Context, models.Booking)       {}
func (Noop) BookingStatusChanged(context.Context, models.Booking) {}
func (Noop) Close() error                                         { return nil }
