package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mick111/HostNFlyHA/internal/api"
	"github.com/mick111/HostNFlyHA/internal/config"
	"github.com/mick111/HostNFlyHA/internal/coordinator"
	"github.com/mick111/HostNFlyHA/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	defer redisClient.Close()

	// Optional occupancy history in PostgreSQL
	var history coordinator.SnapshotRecorder
	if cfg.History.DatabaseURL != "" {
		writer, err := database.NewHistoryWriter(cfg.History.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize history writer: %v", err)
		}
		defer writer.Close()
		if err := writer.CreateTable(); err != nil {
			log.Fatalf("Failed to prepare history table: %v", err)
		}
		history = writer
	}

	// Initialize HostNFly API client, restoring stored tokens if present
	var tokens *api.Tokens
	if cfg.HostNFly.AccessToken != "" && cfg.HostNFly.Client != "" && cfg.HostNFly.UID != "" {
		tokens = &api.Tokens{
			AccessToken: cfg.HostNFly.AccessToken,
			Client:      cfg.HostNFly.Client,
			UID:         cfg.HostNFly.UID,
		}
	}
	client := api.NewClient(
		cfg.HostNFly.Host,
		cfg.HostNFly.Email,
		cfg.HostNFly.Password,
		cfg.HostNFly.TransfersPath,
		tokens,
	)

	coord := coordinator.New(client, redisClient, history, cfg.Monitor, cfg.Redis.SnapshotTTL)

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("HostNFly occupancy monitor started, refreshing every %v", cfg.Monitor.ScanInterval)

	// Start refresh cycles in a separate goroutine
	go func() {
		ticker := time.NewTicker(cfg.Monitor.ScanInterval)
		defer ticker.Stop()

		for {
			if err := refresh(ctx, coord); err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Received shutdown signal, stopping monitor...")
	cancel()
}

// refresh runs one cycle. Auth failures are fatal because only new
// credentials can fix them; anything else waits for the next cycle.
func refresh(ctx context.Context, coord *coordinator.Coordinator) error {
	_, err := coord.Refresh(ctx)
	if err == nil {
		return nil
	}

	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		log.Fatalf("Authentication failed, re-supply credentials: %v", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Printf("Refresh cycle failed, keeping previous snapshot: %v", err)
	return nil
}
