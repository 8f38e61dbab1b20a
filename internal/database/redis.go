package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mick111/HostNFlyHA/internal/models"
)

const snapshotKeyPrefix = "listing_snapshot:"

type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client
func NewRedisClient(host, port, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	_, err := rdb.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Successfully connected to Redis")

	return &RedisClient{client: rdb}, nil
}

// SaveSnapshot caches every listing snapshot as JSON under its listing id
func (r *RedisClient) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot, ttl time.Duration) error {
	for _, id := range snapshot.Order {
		data, err := snapshot.Listings[id].ToJSON()
		if err != nil {
			return fmt.Errorf("failed to encode snapshot for listing %s: %w", id, err)
		}
		if err := r.client.Set(ctx, snapshotKeyPrefix+id, string(data), ttl).Err(); err != nil {
			return fmt.Errorf("failed to cache snapshot for listing %s: %w", id, err)
		}
	}
	return nil
}

// GetSnapshot retrieves the cached snapshot of one listing, nil if absent
func (r *RedisClient) GetSnapshot(ctx context.Context, listingID string) (*models.ListingSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKeyPrefix+listingID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot for listing %s: %w", listingID, err)
	}
	return models.ListingSnapshotFromJSON([]byte(data))
}

// DeleteSnapshot removes the cached snapshot of one listing
func (r *RedisClient) DeleteSnapshot(ctx context.Context, listingID string) error {
	return r.client.Del(ctx, snapshotKeyPrefix+listingID).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}
