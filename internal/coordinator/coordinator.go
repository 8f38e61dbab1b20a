package coordinator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mick111/HostNFlyHA/internal/config"
	"github.com/mick111/HostNFlyHA/internal/models"
)

// Fetcher is the upstream API surface the coordinator needs
type Fetcher interface {
	GetListings(ctx context.Context) ([]map[string]interface{}, error)
	GetReservations(ctx context.Context, minDate, maxDate string) ([]map[string]interface{}, error)
	GetTransfers(ctx context.Context, minDate, maxDate string) ([]map[string]interface{}, error)
}

// SnapshotCache caches the latest per-listing snapshots
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snapshot *models.Snapshot, ttl time.Duration) error
}

// SnapshotRecorder appends occupancy history rows
type SnapshotRecorder interface {
	RecordSnapshot(snapshot *models.Snapshot) error
}

// Coordinator runs one refresh cycle at a time: fetch listings,
// reservations and transfers, then derive the occupancy snapshot.
// The last good snapshot is retained across failed cycles.
type Coordinator struct {
	api      Fetcher
	cache    SnapshotCache
	history  SnapshotRecorder
	monitor  config.MonitorConfig
	cacheTTL time.Duration
	now      func() time.Time
	last     *models.Snapshot
}

// New creates a coordinator. cache and history may be nil to disable
// the corresponding sink.
func New(api Fetcher, cache SnapshotCache, history SnapshotRecorder, monitor config.MonitorConfig, cacheTTL time.Duration) *Coordinator {
	return &Coordinator{
		api:      api,
		cache:    cache,
		history:  history,
		monitor:  monitor,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Refresh fetches fresh data and rebuilds the snapshot. A transfers
// failure only degrades amounts to null; any other fetch failure fails
// the whole cycle and keeps the previous snapshot.
func (c *Coordinator) Refresh(ctx context.Context) (*models.Snapshot, error) {
	year, month, day := c.now().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	minDate := today.AddDate(0, 0, -c.monitor.LookbackDays).Format(dateLayout)
	maxDate := today.AddDate(0, 0, c.monitor.LookaheadDays).Format(dateLayout)

	listings, err := c.api.GetListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	reservations, err := c.api.GetReservations(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservations: %w", err)
	}

	var amounts map[string]interface{}
	transfers, err := c.api.GetTransfers(ctx, minDate, maxDate)
	if err != nil {
		log.Printf("Transfers unavailable, amounts degrade to null: %v", err)
	} else {
		amounts = amountsByReservationID(transfers)
	}

	snapshot := BuildSnapshot(listings, groupByListing(reservations), amounts, today)
	c.last = snapshot

	occupied := 0
	for _, id := range snapshot.Order {
		if snapshot.Listings[id].Occupancy {
			occupied++
		}
	}
	log.Printf("Refreshed %d listings, %d occupied", len(snapshot.Order), occupied)

	if c.cache != nil {
		if err := c.cache.SaveSnapshot(ctx, snapshot, c.cacheTTL); err != nil {
			log.Printf("Failed to cache snapshot: %v", err)
		}
	}
	if c.history != nil {
		if err := c.history.RecordSnapshot(snapshot); err != nil {
			log.Printf("Failed to record occupancy history: %v", err)
		}
	}

	return snapshot, nil
}

// Snapshot returns the last successfully built snapshot, nil before the
// first successful cycle
func (c *Coordinator) Snapshot() *models.Snapshot {
	return c.last
}
