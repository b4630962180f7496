package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

const publishTimeout = 3 * time.Second

// RabbitMQ publishes events to the booking_events topic exchange. Publish
// failures are logged, not propagated; the event stream is advisory and must
// never fail a booking request.
type RabbitMQ struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ Publisher = (*RabbitMQ)(nil)

// NewRabbitMQ dials the broker and declares the exchange.
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	r := &RabbitMQ{url: url}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	return r, nil
}

// BookingCreated emits booking.created.
func (r *RabbitMQ) BookingCreated(ctx context.Context, b models.Booking) {
	r.publish(ctx, routingCreated, b)
}

// BookingStatusChanged emits booking.status.<status>.
func (r *RabbitMQ) BookingStatusChanged(ctx context.Context, b models.Booking) {
	r.publish(ctx, routingStatusPrefix+string(b.Status), b)
}

// Close shuts down the channel and connection.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close channel: %w", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}

func (r *RabbitMQ) publish(ctx context.Context, routingKey string, payload any) {
	if err := r.tryPublish(ctx, routingKey, payload); err != nil {
		log.Printf("events: publish %s: %v", routingKey, err)
	}
}

func (r *RabbitMQ) tryPublish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.aliveLocked() {
		if err := r.connect(); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}

	pubctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return r.ch.PublishWithContext(pubctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// aliveLocked reports connection health. Callers must hold r.mu.
func (r *RabbitMQ) aliveLocked() bool {
	if r.conn == nil || r.conn.IsClosed() {
		return false
	}
	return r.ch != nil && !r.ch.IsClosed()
}

// connect dials and declares the exchange. Callers must hold r.mu (or be the
// constructor).
func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	r.conn = conn
	r.ch = ch
	return nil
}
