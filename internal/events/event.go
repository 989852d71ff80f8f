// Package events publishes and consumes the reservation engine's domain
// events over RabbitMQ, mirroring the teacher's queue_publisher/consumer
// pair but carrying booking/cancellation payloads instead of seat holds.
package events

import (
	"encoding/json"
	"time"

	"github.com/iliyamo/railway-reservation/internal/reservation"
)

const (
	ExchangeName    = "railway.events"
	RoutingBooked   = "booking.confirmed"
	RoutingCanceled = "booking.cancelled"
)

// Payload is the wire shape published to RabbitMQ and consumed by the
// audit-log consumer.
type Payload struct {
	Kind         string    `json:"kind"`
	TicketID     int       `json:"ticket_id"`
	Status       string    `json:"status"`
	PassengerIDs []int     `json:"passenger_ids"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func payloadFrom(ev reservation.BookingEvent) Payload {
	ids := make([]int, len(ev.Ticket.Passengers))
	for i, p := range ev.Ticket.Passengers {
		ids[i] = p.ID
	}
	return Payload{
		Kind:         string(ev.Kind),
		TicketID:     ev.Ticket.ID,
		Status:       string(ev.Ticket.Status),
		PassengerIDs: ids,
		OccurredAt:   ev.OccurredAt,
	}
}

func (p Payload) routingKey() string {
	if p.Kind == string(reservation.EventCancelled) {
		return RoutingCanceled
	}
	return RoutingBooked
}

func (p Payload) marshal() ([]byte, error) { return json.Marshal(p) }
