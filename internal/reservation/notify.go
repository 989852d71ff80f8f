package reservation

import "time"

// EventKind distinguishes the two domain events the Engine emits.
type EventKind string

const (
	EventBooked    EventKind = "booking.confirmed"
	EventCancelled EventKind = "booking.cancelled"
)

// BookingEvent is handed to a Notifier once a mutating operation has
// committed and the Engine's lock has been released. Notifiers must not
// block state mutation, so Notify is expected to hand off asynchronously.
type BookingEvent struct {
	Kind       EventKind
	Ticket     TicketView
	OccurredAt time.Time
}

// Notifier receives completed booking/cancellation events.
type Notifier interface {
	Notify(BookingEvent)
}
