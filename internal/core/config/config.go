package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FOLIO_"

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

// Config represents the top-level application config.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Database  DatabaseConfig  `koanf:"database"`
	Badger    BadgerConfig    `koanf:"badger"`
	Ingestion IngestionConfig `koanf:"ingestion"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Export    ExportConfig    `koanf:"export"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port            int             `koanf:"port"`
	Host            string          `koanf:"host"`
	MaxBodySizeKB   int             `koanf:"max_body_size_kb"`
	Mode            string          `koanf:"mode"` // debug | release
	ShutdownTimeout string          `koanf:"shutdown_timeout"`
	CORSOrigins     []string        `koanf:"cors_origins"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig bounds ingestion requests per client IP.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

type StorageConfig struct {
	Driver string `koanf:"driver"` // postgres | badger | memory
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type BadgerConfig struct {
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
}

type IngestionConfig struct {
	RetainRawEvents bool   `koanf:"retain_raw_events"`
	DedupWindow     string `koanf:"dedup_window"` // empty or "0s" disables dedup
	DedupCapacity   int64  `koanf:"dedup_capacity"`
}

type BreakerConfig struct {
	Enabled          bool   `koanf:"enabled"`
	FailureThreshold uint32 `koanf:"failure_threshold"`
	OpenTimeout      string `koanf:"open_timeout"`
	Interval         string `koanf:"interval"`
}

type ExportConfig struct {
	Filename string `koanf:"filename"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

// ParseDuration parses a Go duration and additionally accepts whole days ("7d").
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("duration must not be empty")
	}

	// time.ParseDuration has no day unit.
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must not be negative, got %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %q", s)
	}
	return d, nil
}

// optionalDuration treats an empty string as zero.
func optionalDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return ParseDuration(s)
}

// ShutdownGrace returns the validated server shutdown timeout.
func (c ServerConfig) ShutdownGrace() time.Duration {
	d, _ := optionalDuration(c.ShutdownTimeout)
	return d
}

// Window returns the validated dedup window; zero means disabled.
func (c IngestionConfig) Window() time.Duration {
	d, _ := optionalDuration(c.DedupWindow)
	return d
}

// Timeouts returns the validated breaker open timeout and count interval.
func (c BreakerConfig) Timeouts() (openTimeout, interval time.Duration) {
	openTimeout, _ = optionalDuration(c.OpenTimeout)
	interval, _ = optionalDuration(c.Interval)
	return openTimeout, interval
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeKB <= 0 {
		return fmt.Errorf("server.max_body_size_kb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if _, err := optionalDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("server.rate_limit.requests_per_second must be > 0")
		}
		if c.Server.RateLimit.Burst <= 0 {
			return fmt.Errorf("server.rate_limit.burst must be > 0")
		}
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	case DriverBadger:
		if strings.TrimSpace(c.Badger.Path) == "" {
			return fmt.Errorf("badger.path is required for the badger driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported storage.driver %q (must be postgres, badger, or memory)", c.Storage.Driver)
	}

	if _, err := optionalDuration(c.Ingestion.DedupWindow); err != nil {
		return fmt.Errorf("invalid ingestion.dedup_window: %w", err)
	}
	if c.Ingestion.DedupCapacity < 0 {
		return fmt.Errorf("ingestion.dedup_capacity must be >= 0")
	}

	if c.Breaker.Enabled {
		if c.Breaker.FailureThreshold == 0 {
			return fmt.Errorf("breaker.failure_threshold must be > 0")
		}
		if d, err := optionalDuration(c.Breaker.OpenTimeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid breaker.open_timeout %q (must be a positive duration)", c.Breaker.OpenTimeout)
		}
		if _, err := optionalDuration(c.Breaker.Interval); err != nil {
			return fmt.Errorf("invalid breaker.interval: %w", err)
		}
	}

	if strings.TrimSpace(c.Export.Filename) == "" {
		return fmt.Errorf("export.filename is required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn, or error)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	return nil
}

// Load layers defaults, the YAML file, a .env file and FOLIO_ environment
// variables (in that order), then validates the result.
//
// configPath and envFile may be empty. A named .env file that does not exist
// is skipped; variables already set in the environment win over it.
// Nested keys use a double underscore: FOLIO_SERVER__PORT=9090.
func Load(configPath, envFile string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                          8080,
		"server.host":                          "0.0.0.0",
		"server.max_body_size_kb":              64,
		"server.mode":                          "release",
		"server.shutdown_timeout":              "10s",
		"server.cors_origins":                  []string{},
		"server.rate_limit.enabled":            true,
		"server.rate_limit.requests_per_second": 5.0,
		"server.rate_limit.burst":              20,
		"storage.driver":                       DriverBadger,
		"database.dsn":                         "",
		"database.max_open_conns":              10,
		"database.max_idle_conns":              5,
		"database.auto_migrate":                true,
		"badger.path":                          "./data/folio",
		"badger.sync_writes":                   false,
		"ingestion.retain_raw_events":          false,
		"ingestion.dedup_window":               "",
		"ingestion.dedup_capacity":             10000,
		"breaker.enabled":                      true,
		"breaker.failure_threshold":            5,
		"breaker.open_timeout":                 "30s",
		"breaker.interval":                     "",
		"export.filename":                      "blog-metrics.csv",
		"log.level":                            "info",
		"log.format":                           "text",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList flattens comma-separated entries, as produced by
// FOLIO_SERVER__CORS_ORIGINS="https://a,https://b".
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
