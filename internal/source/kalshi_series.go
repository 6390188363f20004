package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/odds"
	"github.com/awardsdesk/oddsbot/internal/platform/kalshi"
)

// SeriesAdapter resolves a category through a Kalshi series listing. Series
// are curated per award category, so no denylist filtering is applied. The
// last trade price arrives as an integer in cents and is divided by 100
// before odds conversion.
type SeriesAdapter struct {
	client *kalshi.Client
	logger *slog.Logger
}

// NewSeriesAdapter creates a SeriesAdapter using the given Kalshi client.
func NewSeriesAdapter(client *kalshi.Client, logger *slog.Logger) *SeriesAdapter {
	return &SeriesAdapter{
		client: client,
		logger: logger.With(slog.String("component", "source.kalshi_series")),
	}
}

// Source returns the provider identifier for odds map keys.
func (a *SeriesAdapter) Source() domain.Source {
	return domain.SourceKalshi
}

// Quotes fetches the open markets in the series addressed by cat.Identifier
// and normalizes them. Markets with no meaningful price (0 or 100 cents) are
// skipped per item.
func (a *SeriesAdapter) Quotes(ctx context.Context, cat domain.Category) ([]domain.Quote, error) {
	markets, err := a.client.GetMarketsBySeries(ctx, cat.Identifier, 100)
	if err != nil {
		return nil, fmt.Errorf("source: series %s: %w", cat.Identifier, err)
	}

	quotes := make([]domain.Quote, 0, len(markets))
	for i := range markets {
		m := &markets[i]

		q, err := parseSeriesMarket(m)
		if err != nil {
			a.logger.DebugContext(ctx, "skipping market",
				slog.String("series", cat.Identifier),
				slog.String("ticker", m.Ticker),
				slog.String("error", err.Error()),
			)
			continue
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

// parseSeriesMarket normalizes one Kalshi series market into a quote.
func parseSeriesMarket(m *kalshi.KalshiMarket) (domain.Quote, error) {
	name := m.ContenderName()
	if name == "" {
		return domain.Quote{}, fmt.Errorf("market %s: no contender name", m.Ticker)
	}

	p := float64(m.LastPrice) / 100

	line, err := odds.American(p)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("market %s: %w", m.Ticker, err)
	}

	return domain.Quote{
		Name:        name,
		Probability: p,
		Odds:        line,
	}, nil
}
