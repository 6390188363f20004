package domain

import (
	"context"
	"time"
)

// QuoteCache holds the most recent quote list per category path. The cache is
// best-effort: a miss means "no previous run", never an error condition for
// the updater.
type QuoteCache interface {
	SetQuotes(ctx context.Context, path string, quotes []Quote, ts time.Time) error
	GetQuotes(ctx context.Context, path string) ([]Quote, time.Time, error)
}

// RateLimiter paces outbound API calls across runs.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}
