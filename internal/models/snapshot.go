package models

import (
	"encoding/json"
	"time"
)

// ReservationView is the normalized reservation record exposed downstream.
// Dates are ISO calendar dates; an empty EndDate means an open-ended stay.
type ReservationView struct {
	ReservationID   string   `json:"reservation_id"`
	GuestName       string   `json:"guest_name,omitempty"`
	GuestCount      *int     `json:"guest_count,omitempty"`
	GuestProfileURL string   `json:"guest_profile_url,omitempty"`
	Source          string   `json:"source,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date,omitempty"`
}

// ListingSnapshot holds the derived state of one listing for one cycle
type ListingSnapshot struct {
	Listing            map[string]interface{} `json:"listing"`
	Occupancy          bool                   `json:"occupancy"`
	CurrentReservation *ReservationView       `json:"current_reservation"`
	NextReservation    *ReservationView       `json:"next_reservation"`
}

// Snapshot maps listing ids to their derived state. Order preserves the
// upstream listing order, which maps lose.
type Snapshot struct {
	GeneratedAt time.Time                   `json:"generated_at"`
	Order       []string                    `json:"order"`
	Listings    map[string]*ListingSnapshot `json:"listings"`
}

// ToJSON converts the listing snapshot to JSON
func (s *ListingSnapshot) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// ListingSnapshotFromJSON creates a listing snapshot from JSON data
func ListingSnapshotFromJSON(data []byte) (*ListingSnapshot, error) {
	var snapshot ListingSnapshot
	err := json.Unmarshal(data, &snapshot)
	return &snapshot, err
}
