package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/awardsdesk/oddsbot/internal/domain"
)

// QuoteCache implements domain.QuoteCache using one JSON value per category
// path at key "quotes:{path}".
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuoteCache creates a QuoteCache backed by the given Client. A zero ttl
// means entries never expire.
func NewQuoteCache(c *Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{rdb: c.Underlying(), ttl: ttl}
}

func quoteKey(path string) string {
	return "quotes:" + path
}

type cachedQuotes struct {
	Quotes    []domain.Quote `json:"quotes"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// SetQuotes stores the latest quote list for a category path.
func (qc *QuoteCache) SetQuotes(ctx context.Context, path string, quotes []domain.Quote, ts time.Time) error {
	payload, err := json.Marshal(cachedQuotes{Quotes: quotes, FetchedAt: ts})
	if err != nil {
		return fmt.Errorf("redis: marshal quotes %s: %w", path, err)
	}
	if err := qc.rdb.Set(ctx, quoteKey(path), payload, qc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set quotes %s: %w", path, err)
	}
	return nil
}

// GetQuotes retrieves the latest quote list for a category path. It returns
// domain.ErrNotFound when no entry exists.
func (qc *QuoteCache) GetQuotes(ctx context.Context, path string) ([]domain.Quote, time.Time, error) {
	payload, err := qc.rdb.Get(ctx, quoteKey(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, domain.ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("redis: get quotes %s: %w", path, err)
	}

	var cached cachedQuotes
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, time.Time{}, fmt.Errorf("redis: decode quotes %s: %w", path, err)
	}

	return cached.Quotes, cached.FetchedAt, nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
