package reservation

// cancelTicket implements spec.md §4.4: release the ticket's held
// resources, then run the RAC→Confirmed and Waiting→RAC promotion
// cascades. Must be called with the Engine lock held.
func (e *Engine) cancelTicket(ticketID int) error {
	ticket, ok := e.tickets[ticketID]
	if !ok {
		return newError(CodeNotFound, "ticket %d not found", ticketID)
	}
	if ticket.Status == StatusCancelled {
		return newError(CodeAlreadyCancelled, "ticket %d is already cancelled", ticketID)
	}

	freedConfirmed := 0
	for _, pid := range ticket.PassengerIDs {
		p := e.passengers[pid]
		switch {
		case p.Berth != nil && p.Berth.Type != SideLower:
			freedConfirmed++
			e.inv.release(*p.Berth, p.ID)
			p.Berth = nil
		case p.Berth != nil:
			e.rac.removeByPassenger(p.ID)
			e.inv.release(*p.Berth, p.ID)
			p.Berth = nil
		default:
			e.wait.removeByPassenger(p.ID)
		}
	}
	ticket.Status = StatusCancelled

	e.promote(freedConfirmed)
	return nil
}

// promote runs the two-stage cascade: up to freedConfirmed RAC passengers
// move to the newly vacated confirmed berths (oldest RAC entry first),
// then as many Waiting passengers as there are now-free side-lower slots
// move into RAC. Queue order is strict FIFO; priority class only affected
// which berth type a passenger got at booking time, never queue order.
func (e *Engine) promote(freedConfirmed int) {
	for freedConfirmed > 0 && e.rac.len() > 0 {
		entry, _ := e.rac.popFront()
		p := e.passengers[entry.PassengerID]
		e.inv.release(*p.Berth, p.ID)
		p.Berth = nil

		id, ok := e.promoteToConfirmed(p)
		if !ok {
			panic("reservation: RAC promotion admitted without a free confirmed berth")
		}
		p.Berth = &id
		freedConfirmed--

		e.recomputeStatus(entry.TicketID)
	}

	for e.inv.sideLowerFreeSlots() > 0 && e.wait.len() > 0 {
		entry, _ := e.wait.popFront()
		p := e.passengers[entry.PassengerID]
		id, ok := e.inv.takeSideLowerSlot(p.ID)
		if !ok {
			panic("reservation: waiting promotion admitted without a free side-lower slot")
		}
		p.Berth = &id
		e.rac.append(queueEntry{TicketID: entry.TicketID, PassengerID: p.ID})

		e.recomputeStatus(entry.TicketID)
	}
}

// promoteToConfirmed hands a single promoted passenger a confirmed berth
// using the same Lower→Middle→Upper, lowest-index-first descent the
// Allocator uses. Which RAC entry gets promoted is decided purely by
// queue order (oldest first); this only decides which berth type it gets.
func (e *Engine) promoteToConfirmed(p *Passenger) (BerthID, bool) {
	if id, ok := e.inv.takeFirstFree(Lower, p.ID); ok {
		return id, true
	}
	if id, ok := e.inv.takeFirstFree(Middle, p.ID); ok {
		return id, true
	}
	if id, ok := e.inv.takeFirstFree(Upper, p.ID); ok {
		return id, true
	}
	return BerthID{}, false
}

// recomputeStatus sets ticket.Status to the weakest status among its
// non-child passengers' current assignments.
func (e *Engine) recomputeStatus(ticketID int) {
	ticket := e.tickets[ticketID]
	rank := statusRank(StatusConfirmed)
	for _, pid := range ticket.PassengerIDs {
		p := e.passengers[pid]
		if p.IsChild() {
			continue
		}
		if r := statusRank(passengerStatus(p)); r < rank {
			rank = r
		}
	}
	switch rank {
	case statusRank(StatusWaiting):
		ticket.Status = StatusWaiting
	case statusRank(StatusRAC):
		ticket.Status = StatusRAC
	default:
		ticket.Status = StatusConfirmed
	}
}

// passengerStatus reports a single non-child passenger's current
// allocation result.
func passengerStatus(p *Passenger) TicketStatus {
	if p.Berth == nil {
		return StatusWaiting
	}
	if p.Berth.Type == SideLower {
		return StatusRAC
	}
	return StatusConfirmed
}
