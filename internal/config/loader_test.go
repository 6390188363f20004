package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
mode = "poll"
log_level = "debug"

[polymarket]
gamma_host = "https://gamma.example.com"

[[polymarket.categories]]
slug = "best-picture-2026"
path = "oscars/best-picture"
name = "Best Picture"

[polymarket.search]
year = "2026"
keywords = ["Oscars", "Academy Awards"]

[[polymarket.search.categories]]
match = "best director"
path = "oscars/best-director"
name = "Best Director"

[kalshi]

[[kalshi.categories]]
series = "KXOSCARACTOR"
path = "oscars/best-actor"
name = "Best Actor"

[database]
host = "db.example.com"
port = 5432
database = "awards"
user = "oddsbot"
password = "hunter2"

[redis]
addr = "redis.example.com:6379"

[s3]
enabled = true
bucket = "odds-snapshots"
region = "eu-west-1"
access_key = "AK"
secret_key = "SK"

[updater]
interval = "15m"
archive_interval = "2h"
match_mode = "strict"
rate_limit = 2
rate_window = "3s"

[notify]
telegram_token = "tok"
telegram_chat_id = "chat"
events = ["favorite_change"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "poll", cfg.Mode)
	assert.Equal(t, "https://gamma.example.com", cfg.Polymarket.GammaHost)
	assert.Equal(t, 15*time.Minute, cfg.Updater.Interval.Duration)
	assert.Equal(t, 2*time.Hour, cfg.Updater.ArchiveInterval.Duration)
	assert.Equal(t, 3*time.Second, cfg.Updater.RateWindow.Duration)
	assert.Equal(t, "strict", cfg.Updater.MatchMode)

	// Untouched fields keep their defaults.
	assert.Equal(t, 100, cfg.Polymarket.Search.PageSize)
	assert.Equal(t, 2000, cfg.Polymarket.Search.MaxOffset)
	assert.Equal(t, "https://api.elections.kalshi.com/trade-api/v2", cfg.Kalshi.BaseURL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)

	require.Len(t, cfg.Polymarket.Categories, 1)
	assert.Equal(t, "best-picture-2026", cfg.Polymarket.Categories[0].Slug)
	require.Len(t, cfg.Polymarket.Search.Categories, 1)
	assert.Equal(t, "best director", cfg.Polymarket.Search.Categories[0].Match)
	require.Len(t, cfg.Kalshi.Categories, 1)
	assert.Equal(t, "KXOSCARACTOR", cfg.Kalshi.Categories[0].Series)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ODDSBOT_MODE", "once")
	t.Setenv("ODDSBOT_DATABASE_PASSWORD", "from-env")
	t.Setenv("ODDSBOT_UPDATER_RATE_WINDOW", "5s")
	t.Setenv("ODDSBOT_NOTIFY_EVENTS", "favorite_change, run_complete")

	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "once", cfg.Mode)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 5*time.Second, cfg.Updater.RateWindow.Duration)
	assert.Equal(t, []string{"favorite_change", "run_complete"}, cfg.Notify.Events)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "forever"
	cfg.LogLevel = "loud"
	cfg.Redis.Addr = ""
	cfg.Updater.RateLimit = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "redis: addr")
	assert.Contains(t, err.Error(), "rate_limit")
}

func TestValidateCategoryFields(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	cfg.Polymarket.Categories[0].Path = ""
	cfg.Kalshi.Categories[0].Series = ""

	verr := cfg.Validate()
	require.Error(t, verr)
	assert.Contains(t, verr.Error(), "polymarket.categories[0]: path")
	assert.Contains(t, verr.Error(), "kalshi.categories[0]: series")
}

func TestRedactedConfigHidesSecrets(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	red := RedactedConfig(cfg)
	assert.Equal(t, "***", red.Database.Password)
	assert.Equal(t, "***", red.S3.AccessKey)
	assert.Equal(t, "***", red.S3.SecretKey)
	assert.Equal(t, "***", red.Notify.TelegramToken)

	// Original untouched.
	assert.Equal(t, "hunter2", cfg.Database.Password)

	// Mutating the redacted copy's slices must not leak back.
	red.Notify.Events[0] = "mutated"
	assert.Equal(t, "favorite_change", cfg.Notify.Events[0])
}
