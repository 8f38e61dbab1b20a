package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/mick111/HostNFlyHA/internal/models"
)

// HistoryWriter appends one occupancy row per listing per cycle to
// PostgreSQL. Optional: only created when a DSN is configured.
type HistoryWriter struct {
	db *sql.DB
}

// NewHistoryWriter opens the database and pings it
func NewHistoryWriter(connStr string) (*HistoryWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return &HistoryWriter{db: db}, nil
}

// CreateTable creates the occupancy_history table if it doesn't exist
func (w *HistoryWriter) CreateTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS occupancy_history (
		id             SERIAL PRIMARY KEY,
		listing_id     TEXT      NOT NULL,
		occupied       BOOLEAN   NOT NULL,
		reservation_id TEXT,
		guest_name     TEXT,
		guest_count    INTEGER,
		amount         NUMERIC(10,2),
		start_date     DATE,
		end_date       DATE,
		recorded_at    TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_occupancy_history_listing ON occupancy_history (listing_id);
	CREATE INDEX IF NOT EXISTS idx_occupancy_history_recorded ON occupancy_history (recorded_at);
	`
	_, err := w.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// RecordSnapshot inserts the cycle's rows in a single transaction
func (w *HistoryWriter) RecordSnapshot(snapshot *models.Snapshot) error {
	if len(snapshot.Order) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO occupancy_history
			(listing_id, occupied, reservation_id, guest_name, guest_count, amount, start_date, end_date, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range snapshot.Order {
		listing := snapshot.Listings[id]
		var reservationID, guestName, startDate, endDate sql.NullString
		var guestCount sql.NullInt64
		var amount sql.NullFloat64
		if current := listing.CurrentReservation; current != nil {
			reservationID = sql.NullString{String: current.ReservationID, Valid: current.ReservationID != ""}
			guestName = sql.NullString{String: current.GuestName, Valid: current.GuestName != ""}
			startDate = sql.NullString{String: current.StartDate, Valid: current.StartDate != ""}
			endDate = sql.NullString{String: current.EndDate, Valid: current.EndDate != ""}
			if current.GuestCount != nil {
				guestCount = sql.NullInt64{Int64: int64(*current.GuestCount), Valid: true}
			}
			if current.Amount != nil {
				amount = sql.NullFloat64{Float64: *current.Amount, Valid: true}
			}
		}

		_, err = stmt.Exec(id, listing.Occupancy, reservationID, guestName, guestCount, amount, startDate, endDate, snapshot.GeneratedAt)
		if err != nil {
			return fmt.Errorf("failed to insert history row for listing %s: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (w *HistoryWriter) Close() {
	if w.db != nil {
		_ = w.db.Close()
	}
}
