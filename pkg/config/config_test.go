package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Fetch.Retries != 3 {
		t.Errorf("Expected default retries to be 3, got %d", config.Fetch.Retries)
	}

	if config.Fetch.BaseWait != 45*time.Second {
		t.Errorf("Expected default base wait to be 45s, got %v", config.Fetch.BaseWait)
	}

	if config.Fetch.RequestsPerMinute != 60 {
		t.Errorf("Expected default requests per minute to be 60, got %d", config.Fetch.RequestsPerMinute)
	}

	if config.Snapshot.Directory != "data" {
		t.Errorf("Expected default snapshot directory to be data, got %s", config.Snapshot.Directory)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("IGFOLLOW_SESSION_ID", "test-session-id")
	os.Setenv("IGFOLLOW_CSRF_TOKEN", "test-csrf-token")
	os.Setenv("IGFOLLOW_RETRIES", "5")
	os.Setenv("IGFOLLOW_BASE_WAIT", "10s")
	os.Setenv("IGFOLLOW_REQUESTS_PER_MINUTE", "30")
	os.Setenv("IGFOLLOW_SNAPSHOT_DIR", "/tmp/test-snapshots")
	os.Setenv("IGFOLLOW_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("IGFOLLOW_SESSION_ID")
		os.Unsetenv("IGFOLLOW_CSRF_TOKEN")
		os.Unsetenv("IGFOLLOW_RETRIES")
		os.Unsetenv("IGFOLLOW_BASE_WAIT")
		os.Unsetenv("IGFOLLOW_REQUESTS_PER_MINUTE")
		os.Unsetenv("IGFOLLOW_SNAPSHOT_DIR")
		os.Unsetenv("IGFOLLOW_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Instagram.SessionID != "test-session-id" {
		t.Errorf("Expected session ID to be test-session-id, got %s", config.Instagram.SessionID)
	}

	if config.Instagram.CSRFToken != "test-csrf-token" {
		t.Errorf("Expected CSRF token to be test-csrf-token, got %s", config.Instagram.CSRFToken)
	}

	if config.Fetch.Retries != 5 {
		t.Errorf("Expected retries to be 5, got %d", config.Fetch.Retries)
	}

	if config.Fetch.BaseWait != 10*time.Second {
		t.Errorf("Expected base wait to be 10s, got %v", config.Fetch.BaseWait)
	}

	if config.Fetch.RequestsPerMinute != 30 {
		t.Errorf("Expected requests per minute to be 30, got %d", config.Fetch.RequestsPerMinute)
	}

	if config.Snapshot.Directory != "/tmp/test-snapshots" {
		t.Errorf("Expected snapshot directory to be /tmp/test-snapshots, got %s", config.Snapshot.Directory)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "zero retries",
			mutate:    func(c *Config) { c.Fetch.Retries = 0 },
			wantError: true,
		},
		{
			name:      "negative base wait",
			mutate:    func(c *Config) { c.Fetch.BaseWait = -time.Second },
			wantError: true,
		},
		{
			name:      "empty snapshot directory",
			mutate:    func(c *Config) { c.Snapshot.Directory = "" },
			wantError: true,
		},
		{
			name:      "page size too large",
			mutate:    func(c *Config) { c.Fetch.PageSize = 500 },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
instagram:
  session_id: file-session
fetch:
  retries: 7
  base_wait: 20s
snapshot:
  directory: /tmp/snaps
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Instagram.SessionID != "file-session" {
		t.Errorf("Expected session ID file-session, got %s", config.Instagram.SessionID)
	}
	if config.Fetch.Retries != 7 {
		t.Errorf("Expected retries 7, got %d", config.Fetch.Retries)
	}
	if config.Fetch.BaseWait != 20*time.Second {
		t.Errorf("Expected base wait 20s, got %v", config.Fetch.BaseWait)
	}
	if config.Snapshot.Directory != "/tmp/snaps" {
		t.Errorf("Expected snapshot directory /tmp/snaps, got %s", config.Snapshot.Directory)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", config.Logging.Level)
	}

	// Defaults not mentioned in the file survive the merge.
	if config.Fetch.RequestsPerMinute != 60 {
		t.Errorf("Expected requests per minute to keep default 60, got %d", config.Fetch.RequestsPerMinute)
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"snapshot-dir":        "/tmp/flagged",
		"retries":             9,
		"base-wait":           5 * time.Second,
		"requests-per-minute": 12,
		"log-level":           "error",
	})

	if config.Snapshot.Directory != "/tmp/flagged" {
		t.Errorf("Expected snapshot directory /tmp/flagged, got %s", config.Snapshot.Directory)
	}
	if config.Fetch.Retries != 9 {
		t.Errorf("Expected retries 9, got %d", config.Fetch.Retries)
	}
	if config.Fetch.BaseWait != 5*time.Second {
		t.Errorf("Expected base wait 5s, got %v", config.Fetch.BaseWait)
	}
	if config.Fetch.RequestsPerMinute != 12 {
		t.Errorf("Expected requests per minute 12, got %d", config.Fetch.RequestsPerMinute)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level error, got %s", config.Logging.Level)
	}
}
