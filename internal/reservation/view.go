package reservation

import "time"

// PassengerView is the externally-visible shape of one passenger within a
// ticket response.
type PassengerView struct {
	ID              int
	Name            string
	Age             int
	Gender          Gender
	Berth           *BerthType // nil when the passenger holds no berth
	BerthIndex      int
	RACPosition     *int
	WaitingPosition *int
}

// TicketView is the externally-visible shape of a ticket, including every
// passenger's individual assignment.
type TicketView struct {
	ID          int
	Status      TicketStatus
	BookingTime time.Time
	Passengers  []PassengerView
}

// BerthAvailability reports free-slot counts per berth type.
type BerthAvailability struct {
	Lower     int
	Middle    int
	Upper     int
	SideLower int
}

// AvailabilityView is the response shape of the Available operation.
type AvailabilityView struct {
	ConfirmedAvailable   int
	RACAvailable         int
	WaitingListAvailable int
	Berths               BerthAvailability
}

// BookedSummary tallies non-cancelled tickets by status.
type BookedSummary struct {
	Confirmed int
	RAC       int
	Waiting   int
}

// BookedView is the response shape of the Booked operation.
type BookedView struct {
	Confirmed []TicketView
	RAC       []TicketView
	Waiting   []TicketView
	Summary   BookedSummary
}

// CancelResult is returned by a successful Cancel.
type CancelResult struct {
	TicketID int
	Message  string
}

// ticketView must be called with the Engine lock held.
func (e *Engine) ticketView(t *Ticket) TicketView {
	v := TicketView{ID: t.ID, Status: t.Status, BookingTime: t.BookingTime}
	for _, pid := range t.PassengerIDs {
		p := e.passengers[pid]
		pv := PassengerView{ID: p.ID, Name: p.Name, Age: p.Age, Gender: p.Gender}
		if p.Berth != nil {
			bt := p.Berth.Type
			pv.Berth = &bt
			pv.BerthIndex = p.Berth.Index
			if bt == SideLower {
				if pos, ok := e.rac.positionOf(p.ID); ok {
					pv.RACPosition = &pos
				}
			}
		} else if pos, ok := e.wait.positionOf(p.ID); ok {
			pv.WaitingPosition = &pos
		}
		v.Passengers = append(v.Passengers, pv)
	}
	return v
}
