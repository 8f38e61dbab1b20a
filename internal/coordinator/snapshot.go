package coordinator

import (
	"time"

	"github.com/mick111/HostNFlyHA/internal/models"
)

// groupByListing partitions non-cancelled reservations by listing id.
// Reservations without a resolvable listing id are dropped silently.
func groupByListing(reservations []map[string]interface{}) map[string][]map[string]interface{} {
	grouped := make(map[string][]map[string]interface{})
	for _, reservation := range reservations {
		if isCancelled(reservation) {
			continue
		}
		id := reservationListingID(reservation)
		if id == "" {
			continue
		}
		grouped[id] = append(grouped[id], reservation)
	}
	return grouped
}

// BuildSnapshot composes listings and their grouped reservations into the
// per-listing snapshot mapping. Listings without a resolvable id are
// dropped; reservations pointing at unknown listings never surface.
func BuildSnapshot(listings []map[string]interface{}, byListing map[string][]map[string]interface{}, amounts map[string]interface{}, today time.Time) *models.Snapshot {
	snapshot := &models.Snapshot{
		GeneratedAt: time.Now(),
		Listings:    make(map[string]*models.ListingSnapshot, len(listings)),
	}

	for _, listing := range listings {
		id := listingID(listing)
		if id == "" {
			continue
		}
		current, next := Classify(byListing[id], today, amounts)
		if _, seen := snapshot.Listings[id]; !seen {
			snapshot.Order = append(snapshot.Order, id)
		}
		snapshot.Listings[id] = &models.ListingSnapshot{
			Listing:            listing,
			Occupancy:          current != nil,
			CurrentReservation: current,
			NextReservation:    next,
		}
	}

	return snapshot
}
