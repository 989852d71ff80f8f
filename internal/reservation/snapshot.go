package reservation

import (
	"sort"
	"time"
)

// Persister durably records a Snapshot of the reservation state. Persist
// is invoked inside the same critical section as the mutation that
// produced it (spec.md §5), so it must not block on anything slower than
// a local write.
type Persister interface {
	Persist(Snapshot) error
}

// Snapshot captures the entire reservation state for external
// persistence and is sufficient to exactly reconstruct an Engine.
type Snapshot struct {
	Berths          []BerthSnapshot
	Passengers      []PassengerSnapshot
	Tickets         []TicketSnapshot
	RACQueue        []QueueEntrySnapshot
	WaitingQueue    []QueueEntrySnapshot
	NextTicketID    int
	NextPassengerID int
	Sequence        uint64
}

type BerthSnapshot struct {
	Type      BerthType
	Index     int
	Occupants []int
}

type PassengerSnapshot struct {
	ID               int
	TicketID         int
	Name             string
	Age              int
	Gender           Gender
	IsParent         bool
	ParentIdentifier string
	Berth            *BerthID
}

type TicketSnapshot struct {
	ID           int
	Status       TicketStatus
	BookingTime  time.Time
	Sequence     uint64
	PassengerIDs []int
}

type QueueEntrySnapshot struct {
	TicketID    int
	PassengerID int
}

// snapshotLocked must be called with the Engine lock held.
func (e *Engine) snapshotLocked() Snapshot {
	var snap Snapshot
	for _, t := range [...]BerthType{Lower, Middle, Upper, SideLower} {
		for _, b := range e.inv.berths[t] {
			occ := make([]int, len(b.occupants))
			copy(occ, b.occupants)
			snap.Berths = append(snap.Berths, BerthSnapshot{Type: b.id.Type, Index: b.id.Index, Occupants: occ})
		}
	}

	pids := make([]int, 0, len(e.passengers))
	for id := range e.passengers {
		pids = append(pids, id)
	}
	sort.Ints(pids)
	for _, id := range pids {
		p := e.passengers[id]
		var berth *BerthID
		if p.Berth != nil {
			b := *p.Berth
			berth = &b
		}
		snap.Passengers = append(snap.Passengers, PassengerSnapshot{
			ID: p.ID, TicketID: p.TicketID, Name: p.Name, Age: p.Age, Gender: p.Gender,
			IsParent: p.IsParent, ParentIdentifier: p.ParentIdentifier, Berth: berth,
		})
	}

	tids := make([]int, 0, len(e.tickets))
	for id := range e.tickets {
		tids = append(tids, id)
	}
	sort.Ints(tids)
	for _, id := range tids {
		t := e.tickets[id]
		p := make([]int, len(t.PassengerIDs))
		copy(p, t.PassengerIDs)
		snap.Tickets = append(snap.Tickets, TicketSnapshot{
			ID: t.ID, Status: t.Status, BookingTime: t.BookingTime, Sequence: t.Sequence, PassengerIDs: p,
		})
	}

	for _, entry := range e.rac.snapshot() {
		snap.RACQueue = append(snap.RACQueue, QueueEntrySnapshot(entry))
	}
	for _, entry := range e.wait.snapshot() {
		snap.WaitingQueue = append(snap.WaitingQueue, QueueEntrySnapshot(entry))
	}

	snap.NextTicketID = e.nextTicketID
	snap.NextPassengerID = e.nextPassengerID
	snap.Sequence = e.seq
	return snap
}

// Restore rebuilds an Engine from a previously persisted Snapshot,
// trusting that it satisfied every invariant when it was written.
func Restore(opts Options, snap Snapshot) *Engine {
	e := NewEngine(opts)

	for _, bs := range snap.Berths {
		list := e.inv.berths[bs.Type]
		if bs.Index < 1 || bs.Index > len(list) {
			continue
		}
		occ := make([]int, len(bs.Occupants))
		copy(occ, bs.Occupants)
		list[bs.Index-1].occupants = occ
	}

	for _, ps := range snap.Passengers {
		p := &Passenger{
			ID: ps.ID, TicketID: ps.TicketID, Name: ps.Name, Age: ps.Age, Gender: ps.Gender,
			IsParent: ps.IsParent, ParentIdentifier: ps.ParentIdentifier,
		}
		if ps.Berth != nil {
			b := *ps.Berth
			p.Berth = &b
		}
		e.passengers[p.ID] = p
	}

	for _, ts := range snap.Tickets {
		p := make([]int, len(ts.PassengerIDs))
		copy(p, ts.PassengerIDs)
		e.tickets[ts.ID] = &Ticket{
			ID: ts.ID, Status: ts.Status, BookingTime: ts.BookingTime, Sequence: ts.Sequence, PassengerIDs: p,
		}
	}

	for _, qe := range snap.RACQueue {
		e.rac.append(queueEntry(qe))
	}
	for _, qe := range snap.WaitingQueue {
		e.wait.append(queueEntry(qe))
	}

	e.nextTicketID = snap.NextTicketID
	e.nextPassengerID = snap.NextPassengerID
	e.seq = snap.Sequence
	return e
}
