// Package config defines the top-level configuration for the awards odds bot
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ODDSBOT_* environment variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Database   DatabaseConfig   `toml:"database"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Updater    UpdaterConfig    `toml:"updater"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// CategoryConfig declares one award category for one provider integration.
// Exactly one of slug/series/match is meaningful depending on the section the
// entry appears in.
type CategoryConfig struct {
	// Slug is the Gamma event slug (polymarket.categories).
	Slug string `toml:"slug"`
	// Series is the Kalshi series ticker (kalshi.categories).
	Series string `toml:"series"`
	// Match is the question substring (polymarket.search.categories).
	Match string `toml:"match"`
	// Path is the storage path of the nominee list, e.g. "oscars/best-picture".
	Path string `toml:"path"`
	// Name is the display name used in logs and notifications.
	Name string `toml:"name"`
}

// PolymarketConfig holds Polymarket Gamma API parameters and the categories
// resolved through it.
type PolymarketConfig struct {
	GammaHost  string           `toml:"gamma_host"`
	Categories []CategoryConfig `toml:"categories"`
	Search     SearchConfig     `toml:"search"`
}

// SearchConfig drives the bulk-search integration: one paginated scan of all
// open markets, narrowed by season markers, carved into categories by
// question substring.
type SearchConfig struct {
	// Year is the award-season year that must appear in the question.
	Year string `toml:"year"`
	// Keywords: at least one must appear in the question ("Oscars",
	// "Academy Awards").
	Keywords []string `toml:"keywords"`
	// PageSize is the listing page size (max 100).
	PageSize int `toml:"page_size"`
	// MaxOffset bounds the scan so one run cannot issue unbounded requests.
	MaxOffset  int              `toml:"max_offset"`
	Categories []CategoryConfig `toml:"categories"`
}

// KalshiConfig holds Kalshi API parameters and the series-addressed
// categories.
type KalshiConfig struct {
	BaseURL    string           `toml:"base_url"`
	Categories []CategoryConfig `toml:"categories"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	PoolSize        int    `toml:"pool_size"`
	MaxRetries      int    `toml:"max_retries"`
	TLSEnabled      bool   `toml:"tls_enabled"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// S3Config holds S3-compatible object storage parameters for quote
// snapshots.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// UpdaterConfig holds poll-cycle parameters.
type UpdaterConfig struct {
	// Interval between update runs in poll mode.
	Interval duration `toml:"interval"`
	// ArchiveInterval between quote snapshots in poll mode.
	ArchiveInterval duration `toml:"archive_interval"`
	// MatchMode is "lenient" or "strict".
	MatchMode string `toml:"match_mode"`
	// RateLimit requests per RateWindow against each source API.
	RateLimit  int      `toml:"rate_limit"`
	RateWindow duration `toml:"rate_window"`
	// Denylist patterns override the built-in placeholder filters when set.
	Denylist []string `toml:"denylist"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var validModes = map[string]bool{
	"once": true,
	"poll": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validMatchModes = map[string]bool{
	"lenient": true,
	"strict":  true,
}

// Validate checks the configuration for inconsistencies. It collects every
// problem it finds into a single error so operators can fix them in one pass.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: once, poll)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Polymarket
	if len(c.Polymarket.Categories) > 0 || len(c.Polymarket.Search.Categories) > 0 {
		if c.Polymarket.GammaHost == "" {
			errs = append(errs, "polymarket: gamma_host must not be empty")
		}
	}
	for i, cat := range c.Polymarket.Categories {
		if cat.Slug == "" {
			errs = append(errs, fmt.Sprintf("polymarket.categories[%d]: slug must not be empty", i))
		}
		if cat.Path == "" {
			errs = append(errs, fmt.Sprintf("polymarket.categories[%d]: path must not be empty", i))
		}
	}

	// Polymarket search
	if len(c.Polymarket.Search.Categories) > 0 {
		if c.Polymarket.Search.Year == "" {
			errs = append(errs, "polymarket.search: year must not be empty")
		}
		if c.Polymarket.Search.PageSize < 1 || c.Polymarket.Search.PageSize > 100 {
			errs = append(errs, fmt.Sprintf("polymarket.search: page_size must be 1-100, got %d", c.Polymarket.Search.PageSize))
		}
	}
	for i, cat := range c.Polymarket.Search.Categories {
		if cat.Match == "" {
			errs = append(errs, fmt.Sprintf("polymarket.search.categories[%d]: match must not be empty", i))
		}
		if cat.Path == "" {
			errs = append(errs, fmt.Sprintf("polymarket.search.categories[%d]: path must not be empty", i))
		}
	}

	// Kalshi
	if len(c.Kalshi.Categories) > 0 && c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}
	for i, cat := range c.Kalshi.Categories {
		if cat.Series == "" {
			errs = append(errs, fmt.Sprintf("kalshi.categories[%d]: series must not be empty", i))
		}
		if cat.Path == "" {
			errs = append(errs, fmt.Sprintf("kalshi.categories[%d]: path must not be empty", i))
		}
	}

	// Database
	if strings.TrimSpace(c.Database.DSN) == "" {
		if c.Database.Host == "" {
			errs = append(errs, "database: host must not be empty (or set database.dsn)")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database: port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.Database == "" {
			errs = append(errs, "database: database must not be empty")
		}
	}
	if c.Database.PoolMaxConns < 1 {
		errs = append(errs, "database: pool_max_conns must be >= 1")
	}
	if c.Database.PoolMinConns < 0 {
		errs = append(errs, "database: pool_min_conns must be >= 0")
	}
	if c.Database.PoolMinConns > c.Database.PoolMaxConns {
		errs = append(errs, "database: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when enabled")
		}
	}

	// Updater
	if !validMatchModes[strings.ToLower(c.Updater.MatchMode)] {
		errs = append(errs, fmt.Sprintf("updater: unknown match_mode %q (valid: lenient, strict)", c.Updater.MatchMode))
	}
	if strings.ToLower(c.Mode) == "poll" && c.Updater.Interval.Duration <= 0 {
		errs = append(errs, "updater: interval must be > 0 for poll mode")
	}
	if c.Updater.RateLimit < 1 {
		errs = append(errs, "updater: rate_limit must be >= 1")
	}
	if c.Updater.RateWindow.Duration <= 0 {
		errs = append(errs, "updater: rate_window must be > 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
