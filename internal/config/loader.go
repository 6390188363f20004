package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ODDSBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides reads well-known ODDSBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file. Category tables have no env form; they live in TOML only.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "ODDSBOT_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.Search.Year, "ODDSBOT_POLYMARKET_SEARCH_YEAR")
	setStringSlice(&cfg.Polymarket.Search.Keywords, "ODDSBOT_POLYMARKET_SEARCH_KEYWORDS")
	setInt(&cfg.Polymarket.Search.PageSize, "ODDSBOT_POLYMARKET_SEARCH_PAGE_SIZE")
	setInt(&cfg.Polymarket.Search.MaxOffset, "ODDSBOT_POLYMARKET_SEARCH_MAX_OFFSET")

	// ── Kalshi ──
	setStr(&cfg.Kalshi.BaseURL, "ODDSBOT_KALSHI_BASE_URL")

	// ── Database ──
	setStr(&cfg.Database.DSN, "ODDSBOT_DATABASE_DSN")
	setStr(&cfg.Database.DSN, "ODDSBOT_DATABASE_URL") // compatibility alias
	setStr(&cfg.Database.Host, "ODDSBOT_DATABASE_HOST")
	setInt(&cfg.Database.Port, "ODDSBOT_DATABASE_PORT")
	setStr(&cfg.Database.Database, "ODDSBOT_DATABASE_NAME")
	setStr(&cfg.Database.User, "ODDSBOT_DATABASE_USER")
	setStr(&cfg.Database.Password, "ODDSBOT_DATABASE_PASSWORD")
	setStr(&cfg.Database.SSLMode, "ODDSBOT_DATABASE_SSLMODE")
	setInt(&cfg.Database.PoolMaxConns, "ODDSBOT_DATABASE_POOL_MAX_CONNS")
	setInt(&cfg.Database.PoolMinConns, "ODDSBOT_DATABASE_POOL_MIN_CONNS")
	setBool(&cfg.Database.RunMigrations, "ODDSBOT_DATABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "ODDSBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ODDSBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ODDSBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ODDSBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ODDSBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ODDSBOT_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.CacheTTLMinutes, "ODDSBOT_REDIS_CACHE_TTL_MINUTES")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "ODDSBOT_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "ODDSBOT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "ODDSBOT_S3_REGION")
	setStr(&cfg.S3.Bucket, "ODDSBOT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "ODDSBOT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "ODDSBOT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "ODDSBOT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "ODDSBOT_S3_FORCE_PATH_STYLE")

	// ── Updater ──
	setDuration(&cfg.Updater.Interval, "ODDSBOT_UPDATER_INTERVAL")
	setDuration(&cfg.Updater.ArchiveInterval, "ODDSBOT_UPDATER_ARCHIVE_INTERVAL")
	setStr(&cfg.Updater.MatchMode, "ODDSBOT_UPDATER_MATCH_MODE")
	setInt(&cfg.Updater.RateLimit, "ODDSBOT_UPDATER_RATE_LIMIT")
	setDuration(&cfg.Updater.RateWindow, "ODDSBOT_UPDATER_RATE_WINDOW")
	setStringSlice(&cfg.Updater.Denylist, "ODDSBOT_UPDATER_DENYLIST")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "ODDSBOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ODDSBOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ODDSBOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "ODDSBOT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "ODDSBOT_MODE")
	setStr(&cfg.LogLevel, "ODDSBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
