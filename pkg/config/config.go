package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the follow checker
type Config struct {
	// Instagram credentials
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Fetch behavior against the live API
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Snapshot persistence settings
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// FetchConfig controls retries and pacing for live relation fetches
type FetchConfig struct {
	Retries           int           `yaml:"retries" json:"retries"`
	BaseWait          time.Duration `yaml:"base_wait" json:"base_wait"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestTimeout    time.Duration `yaml:"request_timeout" json:"request_timeout"`
	PageSize          int           `yaml:"page_size" json:"page_size"`
}

// fetchConfigYAML is the wire form of FetchConfig; durations travel as
// strings ("45s", "2m") rather than nanosecond integers.
type fetchConfigYAML struct {
	Retries           int    `yaml:"retries"`
	BaseWait          string `yaml:"base_wait"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	RequestTimeout    string `yaml:"request_timeout"`
	PageSize          int    `yaml:"page_size"`
}

// UnmarshalYAML merges the node into the existing values, so fields omitted
// from a config file keep their defaults.
func (f *FetchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw fetchConfigYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Retries > 0 {
		f.Retries = raw.Retries
	}
	if raw.BaseWait != "" {
		d, err := time.ParseDuration(raw.BaseWait)
		if err != nil {
			return fmt.Errorf("invalid base_wait: %w", err)
		}
		f.BaseWait = d
	}
	if raw.RequestsPerMinute > 0 {
		f.RequestsPerMinute = raw.RequestsPerMinute
	}
	if raw.RequestTimeout != "" {
		d, err := time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
		f.RequestTimeout = d
	}
	if raw.PageSize > 0 {
		f.PageSize = raw.PageSize
	}
	return nil
}

// MarshalYAML writes durations back out in their string form.
func (f FetchConfig) MarshalYAML() (interface{}, error) {
	return fetchConfigYAML{
		Retries:           f.Retries,
		BaseWait:          f.BaseWait.String(),
		RequestsPerMinute: f.RequestsPerMinute,
		RequestTimeout:    f.RequestTimeout.String(),
		PageSize:          f.PageSize,
	}, nil
}

// SnapshotConfig holds snapshot persistence configuration
type SnapshotConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		Fetch: FetchConfig{
			Retries:           3,
			BaseWait:          45 * time.Second,
			RequestsPerMinute: 60,
			RequestTimeout:    30 * time.Second,
			PageSize:          100,
		},
		Snapshot: SnapshotConfig{
			Directory: "data",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("IGFOLLOW_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("IGFOLLOW_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("IGFOLLOW_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if retries := os.Getenv("IGFOLLOW_RETRIES"); retries != "" {
		var val int
		fmt.Sscanf(retries, "%d", &val)
		if val > 0 {
			c.Fetch.Retries = val
		}
	}
	if baseWait := os.Getenv("IGFOLLOW_BASE_WAIT"); baseWait != "" {
		if d, err := time.ParseDuration(baseWait); err == nil && d > 0 {
			c.Fetch.BaseWait = d
		}
	}
	if rpm := os.Getenv("IGFOLLOW_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.Fetch.RequestsPerMinute = val
		}
	}

	if dir := os.Getenv("IGFOLLOW_SNAPSHOT_DIR"); dir != "" {
		c.Snapshot.Directory = dir
	}

	if logLevel := os.Getenv("IGFOLLOW_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".igfollow.yaml",
		".igfollow.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igfollow", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igfollow", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igfollow.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igfollow.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Fetch.Retries <= 0 {
		errs = append(errs, errors.New("retries must be positive"))
	}
	if c.Fetch.BaseWait <= 0 {
		errs = append(errs, errors.New("base wait must be positive"))
	}
	if c.Fetch.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.Fetch.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Fetch.PageSize <= 0 || c.Fetch.PageSize > 200 {
		errs = append(errs, errors.New("page size must be between 1 and 200"))
	}

	if c.Snapshot.Directory == "" {
		errs = append(errs, errors.New("snapshot directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if dir, ok := flags["snapshot-dir"].(string); ok && dir != "" {
		c.Snapshot.Directory = dir
	}
	if retries, ok := flags["retries"].(int); ok && retries > 0 {
		c.Fetch.Retries = retries
	}
	if baseWait, ok := flags["base-wait"].(time.Duration); ok && baseWait > 0 {
		c.Fetch.BaseWait = baseWait
	}
	if rateLimit, ok := flags["requests-per-minute"].(int); ok && rateLimit > 0 {
		c.Fetch.RequestsPerMinute = rateLimit
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igfollow.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
