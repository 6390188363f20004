package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/odds"
	"github.com/awardsdesk/oddsbot/internal/platform/polymarket"
)

// SlugAdapter resolves a category through a single Gamma event lookup by
// slug. Each market in the event is one contender; the market's
// groupItemTitle carries the display name and the first outcome price is the
// win probability.
type SlugAdapter struct {
	gamma  *polymarket.GammaClient
	deny   Denylist
	logger *slog.Logger
}

// NewSlugAdapter creates a SlugAdapter using the given Gamma client and
// denylist.
func NewSlugAdapter(gamma *polymarket.GammaClient, deny Denylist, logger *slog.Logger) *SlugAdapter {
	return &SlugAdapter{
		gamma:  gamma,
		deny:   deny,
		logger: logger.With(slog.String("component", "source.polymarket_slug")),
	}
}

// Source returns the provider identifier for odds map keys.
func (a *SlugAdapter) Source() domain.Source {
	return domain.SourcePolymarket
}

// Quotes fetches the event addressed by cat.Identifier and normalizes its
// markets. Malformed markets are skipped one by one; denylisted placeholder
// names are dropped.
func (a *SlugAdapter) Quotes(ctx context.Context, cat domain.Category) ([]domain.Quote, error) {
	event, err := a.gamma.GetEventBySlug(ctx, cat.Identifier)
	if err != nil {
		return nil, fmt.Errorf("source: slug %s: %w", cat.Identifier, err)
	}

	quotes := make([]domain.Quote, 0, len(event.Markets))
	for i := range event.Markets {
		m := &event.Markets[i]

		if a.deny.Blocked(m.GroupItemTitle) {
			continue
		}

		q, err := parseGroupedMarket(m)
		if err != nil {
			a.logger.DebugContext(ctx, "skipping market",
				slog.String("slug", cat.Identifier),
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

// parseGroupedMarket normalizes one event market into a quote. It returns an
// error for any missing or malformed field so the caller can skip the item
// without aborting the batch.
func parseGroupedMarket(m *polymarket.APIMarket) (domain.Quote, error) {
	if m.GroupItemTitle == "" {
		return domain.Quote{}, fmt.Errorf("market %s: empty groupItemTitle", m.ID)
	}

	prices, err := m.PriceList()
	if err != nil {
		return domain.Quote{}, fmt.Errorf("market %s: decode outcomePrices: %w", m.ID, err)
	}
	if len(prices) == 0 {
		return domain.Quote{}, fmt.Errorf("market %s: empty outcomePrices", m.ID)
	}

	p, err := strconv.ParseFloat(prices[0], 64)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("market %s: parse price %q: %w", m.ID, prices[0], err)
	}

	line, err := odds.American(p)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("market %s: %w", m.ID, err)
	}

	return domain.Quote{
		Name:        m.GroupItemTitle,
		Probability: p,
		Odds:        line,
	}, nil
}
