package reservation

import (
	"testing"
	"time"
)

func testEngine() *Engine {
	tick := 0
	return NewEngine(Options{
		Clock: func() time.Time {
			tick++
			return time.Unix(int64(tick), 0)
		},
	})
}

func adult(name string, age int, gender Gender) PassengerInput {
	return PassengerInput{Name: name, Age: age, Gender: gender}
}

func TestBookFillsConfirmedThenRACThenWaiting(t *testing.T) {
	e := testEngine()

	for i := 0; i < LowerCount+MiddleCount+UpperCount; i++ {
		v, err := e.Book([]PassengerInput{adult("p", 30, Male)})
		if err != nil {
			t.Fatalf("booking %d: unexpected error %v", i, err)
		}
		if v.Status != StatusConfirmed {
			t.Fatalf("booking %d: got status %s, want confirmed", i, v.Status)
		}
	}

	avail := e.Available()
	if avail.ConfirmedAvailable != 0 {
		t.Fatalf("expected 0 confirmed berths left, got %d", avail.ConfirmedAvailable)
	}

	for i := 0; i < RACCapacity; i++ {
		v, err := e.Book([]PassengerInput{adult("p", 30, Male)})
		if err != nil {
			t.Fatalf("rac booking %d: unexpected error %v", i, err)
		}
		if v.Status != StatusRAC {
			t.Fatalf("rac booking %d: got status %s, want rac", i, v.Status)
		}
	}
	if e.Available().RACAvailable != 0 {
		t.Fatalf("expected 0 RAC slots left")
	}

	for i := 0; i < WaitingCapacity; i++ {
		v, err := e.Book([]PassengerInput{adult("p", 30, Male)})
		if err != nil {
			t.Fatalf("waiting booking %d: unexpected error %v", i, err)
		}
		if v.Status != StatusWaiting {
			t.Fatalf("waiting booking %d: got status %s, want waiting", i, v.Status)
		}
	}

	if _, err := e.Book([]PassengerInput{adult("overflow", 30, Male)}); err == nil {
		t.Fatal("expected rejection once every path is exhausted")
	} else if rerr, ok := err.(*Error); !ok || rerr.Code != CodeNoAvailability {
		t.Fatalf("expected NO_AVAILABILITY, got %v", err)
	}
}

func TestGroupAllocationIsAtomic(t *testing.T) {
	e := testEngine()

	// Leave exactly 2 confirmed berths free, then book a group of 3: the
	// whole group must fall through to RAC, not partially confirm.
	for i := 0; i < LowerCount+MiddleCount+UpperCount-2; i++ {
		if _, err := e.Book([]PassengerInput{adult("p", 30, Male)}); err != nil {
			t.Fatalf("setup booking %d failed: %v", i, err)
		}
	}

	group := []PassengerInput{adult("a", 30, Male), adult("b", 31, Male), adult("c", 32, Male)}
	v, err := e.Book(group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != StatusRAC {
		t.Fatalf("expected the oversized group to fall through to RAC, got %s", v.Status)
	}
	for _, pv := range v.Passengers {
		if pv.Berth == nil || *pv.Berth != SideLower {
			t.Fatalf("passenger %s: expected a side-lower berth, got %v", pv.Name, pv.Berth)
		}
	}
}

func TestChildNeverHoldsABerth(t *testing.T) {
	e := testEngine()
	group := []PassengerInput{
		adult("mother", 32, Female),
		{Name: "kid", Age: 3, Gender: Female, ParentIdentifier: "fam-1"},
	}
	group[0].IsParent = true
	group[0].ParentIdentifier = "fam-1"

	v, err := e.Book(group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", v.Status)
	}
	for _, pv := range v.Passengers {
		if pv.Name == "kid" && pv.Berth != nil {
			t.Fatalf("child was assigned a berth: %v", pv.Berth)
		}
	}
}

func TestValidationRejectsUnmatchedChild(t *testing.T) {
	e := testEngine()
	_, err := e.Book([]PassengerInput{{Name: "kid", Age: 2, Gender: Male, ParentIdentifier: "nobody"}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	rerr, ok := err.(*Error)
	if !ok || rerr.Code != CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestValidationRejectsOversizedGroup(t *testing.T) {
	e := testEngine()
	group := make([]PassengerInput, 7)
	for i := range group {
		group[i] = adult("p", 30, Male)
	}
	_, err := e.Book(group)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if rerr, ok := err.(*Error); !ok || rerr.Code != CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSeniorGetsPriorityForLowerBerth(t *testing.T) {
	e := testEngine()

	// Fill every Lower berth except one with normal passengers.
	for i := 0; i < LowerCount-1; i++ {
		if _, err := e.Book([]PassengerInput{adult("p", 30, Male)}); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	// Book a normal passenger and a senior together; the senior must win
	// the last Lower berth even though both are eligible for Lower.
	v, err := e.Book([]PassengerInput{adult("normal", 30, Male), adult("senior", 65, Male)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var seniorBerth, normalBerth *BerthType
	for _, pv := range v.Passengers {
		switch pv.Name {
		case "senior":
			seniorBerth = pv.Berth
		case "normal":
			normalBerth = pv.Berth
		}
	}
	if seniorBerth == nil || *seniorBerth != Lower {
		t.Fatalf("expected senior to receive the last Lower berth, got %v", seniorBerth)
	}
	if normalBerth == nil || *normalBerth == Lower {
		t.Fatalf("expected normal passenger to not receive Lower, got %v", normalBerth)
	}
}

func TestCancelPromotesRACThenWaiting(t *testing.T) {
	e := testEngine()

	var confirmedIDs []int
	for i := 0; i < LowerCount+MiddleCount+UpperCount; i++ {
		v, err := e.Book([]PassengerInput{adult("p", 30, Male)})
		if err != nil {
			t.Fatalf("setup confirmed booking failed: %v", err)
		}
		confirmedIDs = append(confirmedIDs, v.ID)
	}

	racTicket, err := e.Book([]PassengerInput{adult("rac1", 30, Male)})
	if err != nil || racTicket.Status != StatusRAC {
		t.Fatalf("expected first RAC booking, got %v err=%v", racTicket, err)
	}

	// Fill remaining RAC capacity so the next booking becomes Waiting.
	for e.Available().RACAvailable > 0 {
		if _, err := e.Book([]PassengerInput{adult("filler", 30, Male)}); err != nil {
			t.Fatalf("failed filling RAC: %v", err)
		}
	}
	waitTicket, err := e.Book([]PassengerInput{adult("waiter", 30, Male)})
	if err != nil || waitTicket.Status != StatusWaiting {
		t.Fatalf("expected waiting booking, got %v err=%v", waitTicket, err)
	}

	if _, err := e.Cancel(confirmedIDs[0]); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	promoted, err := e.Ticket(racTicket.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if promoted.Status != StatusConfirmed {
		t.Fatalf("expected the head-of-RAC ticket to be promoted to confirmed, got %s", promoted.Status)
	}

	movedToRAC, err := e.Ticket(waitTicket.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if movedToRAC.Status != StatusRAC {
		t.Fatalf("expected the head-of-waiting ticket to be promoted to RAC, got %s", movedToRAC.Status)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	e := testEngine()
	v, err := e.Book([]PassengerInput{adult("p", 30, Male)})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if _, err := e.Cancel(v.ID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	_, err = e.Cancel(v.ID)
	if err == nil {
		t.Fatal("expected error on second cancel")
	}
	if rerr, ok := err.(*Error); !ok || rerr.Code != CodeAlreadyCancelled {
		t.Fatalf("expected ALREADY_CANCELLED, got %v", err)
	}
}

func TestCancelUnknownTicketIsNotFound(t *testing.T) {
	e := testEngine()
	_, err := e.Cancel(999)
	if rerr, ok := err.(*Error); !ok || rerr.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestQueuePositionsStayContiguousAfterMiddleRemoval(t *testing.T) {
	q := newQueue(5)
	q.append(queueEntry{TicketID: 1, PassengerID: 1})
	q.append(queueEntry{TicketID: 2, PassengerID: 2})
	q.append(queueEntry{TicketID: 3, PassengerID: 3})

	q.removeByPassenger(2)

	pos1, _ := q.positionOf(1)
	pos3, _ := q.positionOf(3)
	if pos1 != 1 || pos3 != 2 {
		t.Fatalf("expected contiguous positions 1,2 after removal, got %d,%d", pos1, pos3)
	}
}

func TestTicketStatusIsWeakestAmongPassengers(t *testing.T) {
	e := testEngine()
	for i := 0; i < LowerCount+MiddleCount+UpperCount-1; i++ {
		if _, err := e.Book([]PassengerInput{adult("p", 30, Male)}); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	v, err := e.Book([]PassengerInput{adult("a", 30, Male), adult("b", 31, Male)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != StatusRAC {
		t.Fatalf("expected the group to fall through to RAC since only one confirmed berth remained, got %s", v.Status)
	}

	// Free one confirmed berth: "a", at the head of RAC, is promoted to a
	// confirmed berth while "b" stays in RAC, so the ticket keeps the weaker
	// of the two statuses.
	if _, err := e.Cancel(1); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	mixed, err := e.Ticket(v.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	confirmed, rac := 0, 0
	for _, pv := range mixed.Passengers {
		switch {
		case pv.Berth == nil:
		case *pv.Berth == SideLower:
			rac++
		default:
			confirmed++
		}
	}
	if confirmed != 1 || rac != 1 {
		t.Fatalf("expected one confirmed and one RAC passenger, got %d confirmed and %d rac", confirmed, rac)
	}
	if mixed.Status != StatusRAC {
		t.Fatalf("expected a mixed confirmed/RAC ticket to stay rac, got %s", mixed.Status)
	}
}
