// Package config loads daylog settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/config"
)

// Config holds application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Storage  StorageConfig  `yaml:"storage"`
	Clock    ClockConfig    `yaml:"clock"`
	Remote   RemoteConfig   `yaml:"remote"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Events   EventsConfig   `yaml:"events"`
}

type AppConfig struct {
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type StorageConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// ClockConfig picks the zone that defines "today". Empty means the
// device-local zone.
type ClockConfig struct {
	Timezone string `yaml:"timezone"`
}

// RemoteConfig selects the remote mirror. An empty URL runs local-only.
type RemoteConfig struct {
	URL      string        `yaml:"url"`
	Database string        `yaml:"database"`
	Table    string        `yaml:"table"`
	Timeout  time.Duration `yaml:"timeout"`
	Breaker  BreakerConfig `yaml:"breaker"`
}

type BreakerConfig struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

type AutosaveConfig struct {
	Delay      time.Duration `yaml:"delay"`
	DiaryDelay time.Duration `yaml:"diary_delay"`
}

type BoundaryConfig struct {
	Schedule string `yaml:"schedule"`
}

type EventsConfig struct {
	Enabled     bool        `yaml:"enabled"`
	RabbitMQURL string      `yaml:"rabbitmq_url"`
	Kafka       KafkaConfig `yaml:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Defaults returns the built-in settings.
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Env:       "development",
			LogLevel:  "warn",
			LogFormat: "text",
		},
		Storage: StorageConfig{SQLitePath: getDefaultSQLitePath()},
		Remote: RemoteConfig{
			Database: "daylog",
			Table:    "documents",
			Timeout:  10 * time.Second,
			Breaker: BreakerConfig{
				MaxFailures: 3,
				Timeout:     30 * time.Second,
			},
		},
		Autosave: AutosaveConfig{
			Delay:      300 * time.Millisecond,
			DiaryDelay: 1500 * time.Millisecond,
		},
		Boundary: BoundaryConfig{Schedule: "@every 1m"},
		Events: EventsConfig{
			Kafka: KafkaConfig{Topic: "daylog.journal.events"},
		},
	}
}

// Load reads .env, then the YAML file at path (or DAYLOG_CONFIG when path
// is empty), then the environment.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := Defaults()
	if path == "" {
		path = os.Getenv("DAYLOG_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.overrideFromEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	provider, err := config.NewYAML(
		config.File(path),
		config.Expand(os.LookupEnv),
	)
	if err != nil {
		return fmt.Errorf("failed to create config provider: %w", err)
	}
	if err := provider.Get(config.Root).Populate(c); err != nil {
		return fmt.Errorf("failed to populate config: %w", err)
	}
	return nil
}

func (c *Config) overrideFromEnv() {
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.LogFormat = getEnv("LOG_FORMAT", c.App.LogFormat)

	c.Storage.SQLitePath = getEnv("DAYLOG_SQLITE_PATH", c.Storage.SQLitePath)
	c.Clock.Timezone = getEnv("DAYLOG_TIMEZONE", c.Clock.Timezone)

	c.Remote.URL = getEnv("DAYLOG_REMOTE_URL", c.Remote.URL)
	c.Remote.Database = getEnv("DAYLOG_REMOTE_DATABASE", c.Remote.Database)
	c.Remote.Table = getEnv("DAYLOG_REMOTE_TABLE", c.Remote.Table)
	c.Remote.Timeout = getDurationEnv("DAYLOG_REMOTE_TIMEOUT", c.Remote.Timeout)
	c.Remote.Breaker.MaxFailures = getIntEnv("DAYLOG_BREAKER_MAX_FAILURES", c.Remote.Breaker.MaxFailures)
	c.Remote.Breaker.Timeout = getDurationEnv("DAYLOG_BREAKER_TIMEOUT", c.Remote.Breaker.Timeout)

	c.Autosave.Delay = getDurationEnv("DAYLOG_AUTOSAVE_DELAY", c.Autosave.Delay)
	c.Autosave.DiaryDelay = getDurationEnv("DAYLOG_DIARY_AUTOSAVE_DELAY", c.Autosave.DiaryDelay)
	c.Boundary.Schedule = getEnv("DAYLOG_BOUNDARY_SCHEDULE", c.Boundary.Schedule)

	c.Events.Enabled = getBoolEnv("EVENTS_ENABLED", c.Events.Enabled)
	c.Events.RabbitMQURL = getEnv("RABBITMQ_URL", c.Events.RabbitMQURL)
	c.Events.Kafka.Brokers = getListEnv("KAFKA_BROKERS", c.Events.Kafka.Brokers)
	c.Events.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Events.Kafka.Topic)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Autosave.Delay < 0 {
		errs = append(errs, fmt.Errorf("autosave delay must not be negative, got %s", c.Autosave.Delay))
	}
	if c.Autosave.DiaryDelay < 0 {
		errs = append(errs, fmt.Errorf("diary autosave delay must not be negative, got %s", c.Autosave.DiaryDelay))
	}
	if c.Remote.Timeout < 0 {
		errs = append(errs, fmt.Errorf("remote timeout must not be negative, got %s", c.Remote.Timeout))
	}
	if c.Remote.Breaker.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("breaker max failures must not be negative, got %d", c.Remote.Breaker.MaxFailures))
	}
	if _, err := cron.ParseStandard(c.Boundary.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid boundary schedule %q: %w", c.Boundary.Schedule, err))
	}
	return errors.Join(errs...)
}

// Location returns the zone that defines the calendar day.
func (c *Config) Location() (*time.Location, error) {
	if c.Clock.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Clock.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Clock.Timezone, err)
	}
	return loc, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// RemoteEnabled reports whether a remote mirror is configured.
func (c *Config) RemoteEnabled() bool {
	return c.Remote.URL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getDefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".daylog", "daylog.db")
	}
	return filepath.Join(home, ".daylog", "daylog.db")
}
