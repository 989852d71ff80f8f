package reservation

import (
	"sort"
	"sync"
	"time"
)

// Fixed overflow capacities from spec.md's data model: 9 SideLower berths
// give 18 RAC slots; the waiting list holds at most 10.
const (
	RACCapacity     = 2 * SideLowerCount
	WaitingCapacity = 10
)

// Options configures a new Engine. Persister and Notifier are both
// optional; when nil, snapshotting and event publishing are simply
// skipped, which is useful for tests.
type Options struct {
	Persister Persister
	Notifier  Notifier
	// Clock overrides time.Now, mainly for deterministic tests.
	Clock func() time.Time
}

// Engine is the Transaction Coordinator of spec.md §4.5: a single mutex
// guarding the Inventory, both queues, and the ticket/passenger tables.
// Book and Cancel each run as one critical section; Available and Booked
// take the same lock briefly to read a consistent snapshot.
type Engine struct {
	mu sync.Mutex

	inv  *Inventory
	rac  *queue
	wait *queue

	tickets    map[int]*Ticket
	passengers map[int]*Passenger

	nextTicketID    int
	nextPassengerID int
	seq             uint64

	persister Persister
	notifier  Notifier
	clock     func() time.Time
}

// NewEngine builds an Engine with an empty coach: 63 confirmed berths, 18
// RAC slots, a 10-seat waiting list.
func NewEngine(opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		inv:             newInventory(),
		rac:             newQueue(RACCapacity),
		wait:            newQueue(WaitingCapacity),
		tickets:         make(map[int]*Ticket),
		passengers:      make(map[int]*Passenger),
		nextTicketID:    1,
		nextPassengerID: 1,
		persister:       opts.Persister,
		notifier:        opts.Notifier,
		clock:           clock,
	}
}

func (e *Engine) nextSequence() uint64 {
	e.seq++
	return e.seq
}

// Book validates and books a group of passengers as one ticket.
func (e *Engine) Book(inputs []PassengerInput) (TicketView, error) {
	e.mu.Lock()
	ticket, err := e.bookGroup(inputs)
	if err != nil {
		e.mu.Unlock()
		return TicketView{}, err
	}
	view := e.ticketView(ticket)
	e.persistLocked()
	e.mu.Unlock()

	e.notify(BookingEvent{Kind: EventBooked, Ticket: view, OccurredAt: e.clock()})
	return view, nil
}

// Cancel cancels a ticket and runs the promotion cascade. Cancelling an
// already-cancelled ticket returns ALREADY_CANCELLED rather than
// silently succeeding, so callers can tell a no-op apart from a first
// cancellation while the operation itself stays idempotent in effect.
func (e *Engine) Cancel(ticketID int) (CancelResult, error) {
	e.mu.Lock()
	if err := e.cancelTicket(ticketID); err != nil {
		e.mu.Unlock()
		return CancelResult{}, err
	}
	view := e.ticketView(e.tickets[ticketID])
	e.persistLocked()
	e.mu.Unlock()

	e.notify(BookingEvent{Kind: EventCancelled, Ticket: view, OccurredAt: e.clock()})
	return CancelResult{TicketID: ticketID, Message: "ticket cancelled"}, nil
}

// Available reports current free capacity across confirmed, RAC, and
// waiting.
func (e *Engine) Available() AvailabilityView {
	e.mu.Lock()
	defer e.mu.Unlock()

	free := e.inv.snapshotFree()
	return AvailabilityView{
		ConfirmedAvailable:   free[Lower] + free[Middle] + free[Upper],
		RACAvailable:         e.rac.capacityRemaining(),
		WaitingListAvailable: e.wait.capacityRemaining(),
		Berths: BerthAvailability{
			Lower:     free[Lower],
			Middle:    free[Middle],
			Upper:     free[Upper],
			SideLower: free[SideLower],
		},
	}
}

// Booked returns every non-cancelled ticket, grouped by status, ordered
// by ticket id.
func (e *Engine) Booked() BookedView {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]int, 0, len(e.tickets))
	for id := range e.tickets {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out BookedView
	for _, id := range ids {
		t := e.tickets[id]
		if t.Status == StatusCancelled {
			continue
		}
		v := e.ticketView(t)
		switch t.Status {
		case StatusConfirmed:
			out.Confirmed = append(out.Confirmed, v)
		case StatusRAC:
			out.RAC = append(out.RAC, v)
		case StatusWaiting:
			out.Waiting = append(out.Waiting, v)
		}
	}
	out.Summary = BookedSummary{
		Confirmed: len(out.Confirmed),
		RAC:       len(out.RAC),
		Waiting:   len(out.Waiting),
	}
	return out
}

// Ticket looks up a single ticket by id regardless of status, for the
// staff boarding-slip endpoint.
func (e *Engine) Ticket(ticketID int) (TicketView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.tickets[ticketID]
	if !ok {
		return TicketView{}, newError(CodeNotFound, "ticket %d not found", ticketID)
	}
	return e.ticketView(t), nil
}

func (e *Engine) notify(ev BookingEvent) {
	if e.notifier != nil {
		e.notifier.Notify(ev)
	}
}

// persistLocked must be called with the Engine lock held; a persistence
// failure is swallowed here rather than surfaced to the caller, since
// spec.md scopes durability to the ambient stack, not the core's
// correctness contract. The store logs the failure itself.
func (e *Engine) persistLocked() {
	if e.persister == nil {
		return
	}
	_ = e.persister.Persist(e.snapshotLocked())
}
