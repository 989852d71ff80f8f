package store

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/railway-reservation/internal/reservation"
)

func TestPersistWritesSnapshotInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := &Store{db: db}

	snap := reservation.Snapshot{
		Berths: []reservation.BerthSnapshot{
			{Type: reservation.Lower, Index: 1, Occupants: []int{7}},
		},
		Passengers: []reservation.PassengerSnapshot{
			{ID: 7, TicketID: 1, Name: "a", Age: 30, Gender: reservation.Male,
				Berth: &reservation.BerthID{Type: reservation.Lower, Index: 1}},
		},
		Tickets: []reservation.TicketSnapshot{
			{ID: 1, Status: reservation.StatusConfirmed, BookingTime: time.Unix(1, 0), Sequence: 1, PassengerIDs: []int{7}},
		},
		NextTicketID:    2,
		NextPassengerID: 8,
		Sequence:        1,
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM berths").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM passengers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM tickets").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM queue_entries").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM engine_counters").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO berths").WithArgs("lower", 1, "7").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO passengers").WithArgs(7, 1, "a", 30, "male", false, "", "lower", 1).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tickets").WithArgs(1, "confirmed", snap.Tickets[0].BookingTime, uint64(1), "7").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO engine_counters").WithArgs(2, 8, uint64(1)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := s.Persist(snap); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoadReturnsNotOKOnEmptyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := &Store{db: db}
	mock.ExpectQuery("SELECT next_ticket_id, next_passenger_id, sequence_no FROM engine_counters").
		WillReturnRows(sqlmock.NewRows([]string{"next_ticket_id", "next_passenger_id", "sequence_no"}))

	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false on an empty database")
	}
}
