package reservation

// MaxGroupSize is the largest number of non-child passengers a single
// booking request may include.
const MaxGroupSize = 6

// validateGroup enforces spec.md §7's validation rules ahead of any state
// mutation: malformed fields, an unmatched child, or a group outside
// [1, MaxGroupSize] non-child passengers are all VALIDATION_ERROR.
func validateGroup(inputs []PassengerInput) error {
	if len(inputs) == 0 {
		return newError(CodeValidation, "booking group must include at least one passenger")
	}

	nonChild := 0
	for i, in := range inputs {
		if in.Name == "" {
			return newError(CodeValidation, "passenger %d: name is required", i)
		}
		if in.Age < 0 {
			return newError(CodeValidation, "passenger %d: age must not be negative", i)
		}
		switch in.Gender {
		case Male, Female, Other:
		default:
			return newError(CodeValidation, "passenger %d: invalid gender %q", i, in.Gender)
		}
		if in.Age >= MinAgeForBerth {
			nonChild++
		}
	}

	for i, in := range inputs {
		if in.Age >= MinAgeForBerth {
			continue
		}
		if in.ParentIdentifier == "" {
			return newError(CodeValidation, "passenger %d: child requires a parent_identifier", i)
		}
		matched := false
		for j, other := range inputs {
			if j == i || other.Age < MinAgeForBerth {
				continue
			}
			if other.ParentIdentifier == in.ParentIdentifier {
				matched = true
				break
			}
		}
		if !matched {
			return newError(CodeValidation, "passenger %d: no matching parent_identifier in group", i)
		}
	}

	if nonChild == 0 {
		return newError(CodeValidation, "booking group must include at least one passenger aged %d or older", MinAgeForBerth)
	}
	if nonChild > MaxGroupSize {
		return newError(CodeValidation, "booking group exceeds the %d-passenger limit", MaxGroupSize)
	}
	return nil
}

// bookGroup validates and books a group of passengers as one ticket, per
// spec.md §4.3's strict Confirmed → RAC → Waiting → Reject descent. Path
// admission is decided against current free capacity before any passenger
// or ticket is created, so a rejected booking never touches engine state.
// Must be called with the Engine lock held.
func (e *Engine) bookGroup(inputs []PassengerInput) (*Ticket, error) {
	if err := validateGroup(inputs); err != nil {
		return nil, err
	}

	n := 0
	for _, in := range inputs {
		if in.Age >= MinAgeForBerth {
			n++
		}
	}

	var status TicketStatus
	switch {
	case e.inv.countFree(Lower)+e.inv.countFree(Middle)+e.inv.countFree(Upper) >= n:
		status = StatusConfirmed
	case e.inv.sideLowerFreeSlots() >= n:
		status = StatusRAC
	case e.wait.capacityRemaining() >= n:
		status = StatusWaiting
	default:
		return nil, errNoAvailability
	}

	group := make([]*Passenger, len(inputs))
	nonChild := make([]*Passenger, 0, len(inputs))
	for i, in := range inputs {
		p := &Passenger{
			ID:               e.nextPassengerID,
			Name:             in.Name,
			Age:              in.Age,
			Gender:           in.Gender,
			IsParent:         in.IsParent,
			ParentIdentifier: in.ParentIdentifier,
		}
		e.nextPassengerID++
		group[i] = p
		if !p.IsChild() {
			nonChild = append(nonChild, p)
		}
	}

	ticket := &Ticket{
		ID:          e.nextTicketID,
		Status:      status,
		BookingTime: e.clock(),
		Sequence:    e.nextSequence(),
	}
	e.nextTicketID++
	for _, p := range group {
		p.TicketID = ticket.ID
		ticket.PassengerIDs = append(ticket.PassengerIDs, p.ID)
		e.passengers[p.ID] = p
	}
	e.tickets[ticket.ID] = ticket

	ordered := priorityOrder(group, nonChild)
	switch status {
	case StatusConfirmed:
		for _, p := range ordered {
			e.assignConfirmedBerth(p)
		}
	case StatusRAC:
		for _, p := range ordered {
			e.assignRAC(ticket.ID, p)
		}
	case StatusWaiting:
		for _, p := range ordered {
			e.assignWaiting(ticket.ID, p)
		}
	}
	return ticket, nil
}

// assignConfirmedBerth gives p the highest-priority free berth type:
// Lower, then Middle, then Upper.
func (e *Engine) assignConfirmedBerth(p *Passenger) {
	if id, ok := e.inv.takeFirstFree(Lower, p.ID); ok {
		p.Berth = &id
		return
	}
	if id, ok := e.inv.takeFirstFree(Middle, p.ID); ok {
		p.Berth = &id
		return
	}
	if id, ok := e.inv.takeFirstFree(Upper, p.ID); ok {
		p.Berth = &id
		return
	}
	panic("reservation: confirmed path admitted without enough free berths")
}

func (e *Engine) assignRAC(ticketID int, p *Passenger) {
	id, ok := e.inv.takeSideLowerSlot(p.ID)
	if !ok {
		panic("reservation: RAC path admitted without enough free side-lower slots")
	}
	p.Berth = &id
	e.rac.append(queueEntry{TicketID: ticketID, PassengerID: p.ID})
}

func (e *Engine) assignWaiting(ticketID int, p *Passenger) {
	e.wait.append(queueEntry{TicketID: ticketID, PassengerID: p.ID})
}
