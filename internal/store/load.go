package store

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/railway-reservation/internal/reservation"
)

// Load reads back the most recently persisted Snapshot, if any. ok is
// false when the engine_counters row is absent, meaning this is a fresh
// database and the caller should start an empty Engine instead.
func (s *Store) Load() (snap reservation.Snapshot, ok bool, err error) {
	row := s.db.QueryRow(`SELECT next_ticket_id, next_passenger_id, sequence_no FROM engine_counters WHERE id = 1`)
	if err := row.Scan(&snap.NextTicketID, &snap.NextPassengerID, &snap.Sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reservation.Snapshot{}, false, nil
		}
		return reservation.Snapshot{}, false, err
	}

	berthRows, err := s.db.Query(`SELECT berth_type, berth_index, occupant_ids FROM berths`)
	if err != nil {
		return reservation.Snapshot{}, false, err
	}
	defer berthRows.Close()
	for berthRows.Next() {
		var berthType, occupants string
		var index int
		if err := berthRows.Scan(&berthType, &index, &occupants); err != nil {
			return reservation.Snapshot{}, false, err
		}
		snap.Berths = append(snap.Berths, reservation.BerthSnapshot{
			Type:      parseBerthType(berthType),
			Index:     index,
			Occupants: parseInts(occupants),
		})
	}

	passengerRows, err := s.db.Query(`SELECT id, ticket_id, name, age, gender, is_parent, parent_identifier, berth_type, berth_index FROM passengers`)
	if err != nil {
		return reservation.Snapshot{}, false, err
	}
	defer passengerRows.Close()
	for passengerRows.Next() {
		var ps reservation.PassengerSnapshot
		var gender, berthType string
		var berthIndex int
		if err := passengerRows.Scan(&ps.ID, &ps.TicketID, &ps.Name, &ps.Age, &gender, &ps.IsParent, &ps.ParentIdentifier, &berthType, &berthIndex); err != nil {
			return reservation.Snapshot{}, false, err
		}
		ps.Gender = reservation.Gender(gender)
		if berthType != "" {
			bt := parseBerthType(berthType)
			ps.Berth = &reservation.BerthID{Type: bt, Index: berthIndex}
		}
		snap.Passengers = append(snap.Passengers, ps)
	}

	ticketRows, err := s.db.Query(`SELECT id, status, booking_time, sequence_no, passenger_ids FROM tickets`)
	if err != nil {
		return reservation.Snapshot{}, false, err
	}
	defer ticketRows.Close()
	for ticketRows.Next() {
		var ts reservation.TicketSnapshot
		var status, passengerIDs string
		if err := ticketRows.Scan(&ts.ID, &status, &ts.BookingTime, &ts.Sequence, &passengerIDs); err != nil {
			return reservation.Snapshot{}, false, err
		}
		ts.Status = reservation.TicketStatus(status)
		ts.PassengerIDs = parseInts(passengerIDs)
		snap.Tickets = append(snap.Tickets, ts)
	}

	queueRows, err := s.db.Query(`SELECT queue_name, ticket_id, passenger_id FROM queue_entries ORDER BY queue_name, position`)
	if err != nil {
		return reservation.Snapshot{}, false, err
	}
	defer queueRows.Close()
	for queueRows.Next() {
		var name string
		var qe reservation.QueueEntrySnapshot
		if err := queueRows.Scan(&name, &qe.TicketID, &qe.PassengerID); err != nil {
			return reservation.Snapshot{}, false, err
		}
		if name == "rac" {
			snap.RACQueue = append(snap.RACQueue, qe)
		} else {
			snap.WaitingQueue = append(snap.WaitingQueue, qe)
		}
	}

	return snap, true, nil
}

func parseBerthType(s string) reservation.BerthType {
	switch s {
	case "lower":
		return reservation.Lower
	case "middle":
		return reservation.Middle
	case "upper":
		return reservation.Upper
	default:
		return reservation.SideLower
	}
}

func parseInts(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}
