// Package store durably persists reservation.Snapshot to MySQL and
// rehydrates it on startup, generalizing the teacher's pooled
// database/sql connection and transactional multi-row write pattern from
// seat reservations to berth/ticket/queue snapshots.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/railway-reservation/internal/config"
	"github.com/iliyamo/railway-reservation/internal/reservation"
)

// Store wraps a pooled MySQL connection used to snapshot reservation
// state. Persist logs every failure itself and also returns it; the engine
// does not surface it to callers, since durability is an ambient concern
// layered on top of the core.
type Store struct {
	db *sql.DB
}

// Open connects to MySQL with pool settings mirroring the teacher's
// database/db.go tuning and ensures the snapshot schema exists.
func Open(cfg config.Config) (*Store, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying connection for read-only ambient uses like
// the health check; callers must not write through it.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS berths (
			berth_type VARCHAR(16) NOT NULL,
			berth_index INT NOT NULL,
			occupant_ids VARCHAR(64) NOT NULL DEFAULT '',
			PRIMARY KEY (berth_type, berth_index)
		)`,
		`CREATE TABLE IF NOT EXISTS passengers (
			id INT PRIMARY KEY,
			ticket_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			age INT NOT NULL,
			gender VARCHAR(16) NOT NULL,
			is_parent BOOLEAN NOT NULL DEFAULT FALSE,
			parent_identifier VARCHAR(64) NOT NULL DEFAULT '',
			berth_type VARCHAR(16) NOT NULL DEFAULT '',
			berth_index INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id INT PRIMARY KEY,
			status VARCHAR(16) NOT NULL,
			booking_time DATETIME NOT NULL,
			sequence_no BIGINT UNSIGNED NOT NULL,
			passenger_ids VARCHAR(255) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS queue_entries (
			queue_name VARCHAR(16) NOT NULL,
			position INT NOT NULL,
			ticket_id INT NOT NULL,
			passenger_id INT NOT NULL,
			PRIMARY KEY (queue_name, position)
		)`,
		`CREATE TABLE IF NOT EXISTS engine_counters (
			id TINYINT PRIMARY KEY DEFAULT 1,
			next_ticket_id INT NOT NULL,
			next_passenger_id INT NOT NULL,
			sequence_no BIGINT UNSIGNED NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Persist implements reservation.Persister by replacing every row with
// the contents of snap inside one transaction. The berths and queues are
// small (at most 63+18+10 passengers hold a berth or queue slot), though
// cancelled tickets and their passengers are kept and rewritten as well; a
// full truncate-and-reinsert keeps the write simple rather than diffing
// against the previous snapshot.
func (s *Store) Persist(snap reservation.Snapshot) (err error) {
	defer func() {
		if err != nil {
			log.Printf("store: persist failed: %v", err)
		}
	}()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"berths", "passengers", "tickets", "queue_entries", "engine_counters"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	for _, b := range snap.Berths {
		if _, err := tx.Exec(
			`INSERT INTO berths (berth_type, berth_index, occupant_ids) VALUES (?, ?, ?)`,
			b.Type.String(), b.Index, joinInts(b.Occupants),
		); err != nil {
			return fmt.Errorf("store: insert berth: %w", err)
		}
	}

	for _, p := range snap.Passengers {
		berthType, berthIndex := "", 0
		if p.Berth != nil {
			berthType, berthIndex = p.Berth.Type.String(), p.Berth.Index
		}
		if _, err := tx.Exec(
			`INSERT INTO passengers (id, ticket_id, name, age, gender, is_parent, parent_identifier, berth_type, berth_index)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.TicketID, p.Name, p.Age, string(p.Gender), p.IsParent, p.ParentIdentifier, berthType, berthIndex,
		); err != nil {
			return fmt.Errorf("store: insert passenger: %w", err)
		}
	}

	for _, t := range snap.Tickets {
		if _, err := tx.Exec(
			`INSERT INTO tickets (id, status, booking_time, sequence_no, passenger_ids) VALUES (?, ?, ?, ?, ?)`,
			t.ID, string(t.Status), t.BookingTime, t.Sequence, joinInts(t.PassengerIDs),
		); err != nil {
			return fmt.Errorf("store: insert ticket: %w", err)
		}
	}

	for i, qe := range snap.RACQueue {
		if _, err := tx.Exec(
			`INSERT INTO queue_entries (queue_name, position, ticket_id, passenger_id) VALUES ('rac', ?, ?, ?)`,
			i+1, qe.TicketID, qe.PassengerID,
		); err != nil {
			return fmt.Errorf("store: insert rac entry: %w", err)
		}
	}
	for i, qe := range snap.WaitingQueue {
		if _, err := tx.Exec(
			`INSERT INTO queue_entries (queue_name, position, ticket_id, passenger_id) VALUES ('waiting', ?, ?, ?)`,
			i+1, qe.TicketID, qe.PassengerID,
		); err != nil {
			return fmt.Errorf("store: insert waiting entry: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO engine_counters (id, next_ticket_id, next_passenger_id, sequence_no) VALUES (1, ?, ?, ?)`,
		snap.NextTicketID, snap.NextPassengerID, snap.Sequence,
	); err != nil {
		return fmt.Errorf("store: insert counters: %w", err)
	}

	return tx.Commit()
}

func joinInts(ids []int) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", id)
	}
	return out
}
