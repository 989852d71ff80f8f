package events

import (
	"context"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/railway-reservation/internal/reservation"
)

// Publisher implements reservation.Notifier by publishing each event to
// a topic exchange, exactly as the teacher's queue_publisher does for
// seat-hold events. Notify never blocks the caller on a slow broker; a
// publish failure is logged and dropped, since the audit trail is
// best-effort and never gates a booking's success.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials amqpURL and declares the topic exchange the
// Consumer binds its queue to.
func NewPublisher(amqpURL string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Close() error {
	p.ch.Close()
	return p.conn.Close()
}

// Notify publishes the event; called by the Engine just after its lock
// is released.
func (p *Publisher) Notify(ev reservation.BookingEvent) {
	payload := payloadFrom(ev)
	body, err := payload.marshal()
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := p.ch.PublishWithContext(ctx, ExchangeName, payload.routingKey(), false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
		})
		if err != nil {
			log.Printf("events: publish failed for ticket %d: %v", ev.Ticket.ID, err)
		}
	}()
}
