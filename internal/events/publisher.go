package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const QueueBookingCompleted = "booking.completed"

// BookingCompleted is published after a payment records a history entry.
type BookingCompleted struct {
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id,omitempty"`
	Departure     string    `json:"departure"`
	Arrival       string    `json:"arrival"`
	DepartureTime string    `json:"departure_time"`
	Passengers    int       `json:"passengers"`
	TotalPrice    int64     `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	QuickPurchase bool      `json:"quick_purchase"`
	PaidAt        time.Time `json:"paid_at"`
}

type Publisher interface {
	PublishBookingCompleted(ctx context.Context, ev BookingCompleted) error
}

// Noop drops events; used when no broker is configured.
type Noop struct{}

func (Noop) PublishBookingCompleted(context.Context, BookingCompleted) error { return nil }

// AMQP publishes JSON events to a durable queue, one channel per message.
type AMQP struct {
	mu   sync.Mutex
	conn *amqp.Connection
}

func DialAMQP(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	return &AMQP{conn: conn}, nil
}

func (p *AMQP) PublishBookingCompleted(ctx context.Context, ev BookingCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		QueueBookingCompleted,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",
		q.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.PaidAt,
			Body:         body,
		},
	)
}

func (p *AMQP) Close() error {
	return p.conn.Close()
}

// New dials url when set; falls back to Noop so payments never block on the broker.
func New(url string) Publisher {
	if url == "" {
		return Noop{}
	}
	p, err := DialAMQP(url)
	if err != nil {
		log.Printf("[EVENTS] broker tidak tersedia, event dibuang: %v", err)
		return Noop{}
	}
	log.Printf("[EVENTS] terhubung ke broker")
	return p
}
