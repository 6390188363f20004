package config

import "time"

// Defaults returns a Config pre-populated with sane defaults. Values loaded
// from TOML and environment variables are layered on top.
func Defaults() *Config {
	return &Config{
		Mode:     "once",
		LogLevel: "info",
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			Search: SearchConfig{
				PageSize:  100,
				MaxOffset: 2000,
			},
		},
		Kalshi: KalshiConfig{
			BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
		},
		Database: DatabaseConfig{
			Port:          5432,
			SSLMode:       "require",
			PoolMaxConns:  4,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			PoolSize:        10,
			MaxRetries:      3,
			CacheTTLMinutes: 120,
		},
		S3: S3Config{
			Region: "us-east-1",
			UseSSL: true,
		},
		Updater: UpdaterConfig{
			Interval:        duration{30 * time.Minute},
			ArchiveInterval: duration{6 * time.Hour},
			MatchMode:       "lenient",
			RateLimit:       1,
			RateWindow:      duration{2 * time.Second},
		},
	}
}
