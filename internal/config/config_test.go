package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOSTNFLY_EMAIL", "host@example.com")
	t.Setenv("HOSTNFLY_PASSWORD", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HostNFly.Host != "https://api.hostnfly.com" {
		t.Errorf("host = %q", cfg.HostNFly.Host)
	}
	if cfg.Monitor.ScanInterval != 15*time.Minute {
		t.Errorf("scan interval = %v, want 15m", cfg.Monitor.ScanInterval)
	}
	if cfg.Monitor.LookbackDays != 30 || cfg.Monitor.LookaheadDays != 180 {
		t.Errorf("window = %d/%d, want 30/180", cfg.Monitor.LookbackDays, cfg.Monitor.LookaheadDays)
	}
	if cfg.HostNFly.TransfersPath != "/api/v1/transfers" {
		t.Errorf("transfers path = %q", cfg.HostNFly.TransfersPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCAN_INTERVAL_MINUTES", "5")
	t.Setenv("LOOKAHEAD_DAYS", "90")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Monitor.ScanInterval != 5*time.Minute {
		t.Errorf("scan interval = %v, want 5m", cfg.Monitor.ScanInterval)
	}
	if cfg.Monitor.LookaheadDays != 90 {
		t.Errorf("lookahead = %d, want 90", cfg.Monitor.LookaheadDays)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("unparsable int must fall back to default, got %d", cfg.Redis.DB)
	}
}

func TestLoadRequiresEmail(t *testing.T) {
	t.Setenv("HOSTNFLY_EMAIL", "")
	if _, err := Load(); err == nil {
		t.Fatal("missing email must fail")
	}
}

func TestLoadRequiresCredentialsOrTokens(t *testing.T) {
	t.Setenv("HOSTNFLY_EMAIL", "host@example.com")
	t.Setenv("HOSTNFLY_PASSWORD", "")
	t.Setenv("HOSTNFLY_ACCESS_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("missing password and tokens must fail")
	}

	t.Setenv("HOSTNFLY_ACCESS_TOKEN", "stored-token")
	t.Setenv("HOSTNFLY_CLIENT", "stored-client")
	t.Setenv("HOSTNFLY_UID", "stored-uid")
	if _, err := Load(); err != nil {
		t.Fatalf("stored tokens must satisfy the credential check: %v", err)
	}
}
