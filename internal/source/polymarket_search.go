package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/platform/polymarket"
)

// Markers is the free-text filter that narrows the global open-market listing
// to the award season of interest: the question must mention the season year
// and at least one of the keywords.
type Markers struct {
	Year     string
	Keywords []string
}

// SearchAdapter scans all currently open Polymarket markets and carves
// category quote lists out of them by substring match against the question
// text. The paginated listing is fetched once per run and memoized across
// categories.
type SearchAdapter struct {
	gamma    *polymarket.GammaClient
	deny     Denylist
	markers  Markers
	pageSize int
	// maxOffset bounds the number of listing requests per run. Pagination
	// also stops as soon as a page comes back short.
	maxOffset int
	logger    *slog.Logger

	markets []polymarket.APIMarket
	fetched bool
}

// NewSearchAdapter creates a SearchAdapter. pageSize and maxOffset fall back
// to 100 and 2000 when non-positive.
func NewSearchAdapter(gamma *polymarket.GammaClient, deny Denylist, markers Markers, pageSize, maxOffset int, logger *slog.Logger) *SearchAdapter {
	if pageSize <= 0 {
		pageSize = 100
	}
	if maxOffset <= 0 {
		maxOffset = 2000
	}
	return &SearchAdapter{
		gamma:     gamma,
		deny:      deny,
		markers:   markers,
		pageSize:  pageSize,
		maxOffset: maxOffset,
		logger:    logger.With(slog.String("component", "source.polymarket_search")),
	}
}

// Source returns the provider identifier for odds map keys.
func (a *SearchAdapter) Source() domain.Source {
	return domain.SourcePolymarket
}

// Invalidate drops the memoized market listing so the next Quotes call
// re-fetches. Runners call this at the start of every run.
func (a *SearchAdapter) Invalidate() {
	a.markets = nil
	a.fetched = false
}

// Quotes returns the category's quote list sorted by descending probability.
// Ties keep listing order.
func (a *SearchAdapter) Quotes(ctx context.Context, cat domain.Category) ([]domain.Quote, error) {
	if err := a.fetchAll(ctx); err != nil {
		return nil, err
	}

	needle := strings.ToLower(cat.Match)
	var quotes []domain.Quote
	for i := range a.markets {
		m := &a.markets[i]
		if !strings.Contains(strings.ToLower(m.Question), needle) {
			continue
		}

		q, err := parseSearchMarket(m)
		if err != nil {
			a.logger.DebugContext(ctx, "skipping market",
				slog.String("category", cat.Path),
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if a.deny.Blocked(q.Name) {
			continue
		}
		quotes = append(quotes, q)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Probability > quotes[j].Probability
	})

	return quotes, nil
}

// fetchAll pages through the open-market listing, keeping only markets that
// match the season markers. Fetching stops on a short page or once the
// configured maximum offset is reached.
func (a *SearchAdapter) fetchAll(ctx context.Context) error {
	if a.fetched {
		return nil
	}

	var kept []polymarket.APIMarket
	for offset := 0; offset <= a.maxOffset; offset += a.pageSize {
		page, err := a.gamma.ListOpenMarkets(ctx, a.pageSize, offset)
		if err != nil {
			return fmt.Errorf("source: search listing: %w", err)
		}

		for i := range page {
			if a.matchesMarkers(page[i].Question) {
				kept = append(kept, page[i])
			}
		}

		if len(page) < a.pageSize {
			break
		}
	}

	a.markets = kept
	a.fetched = true
	a.logger.Debug("open market listing fetched", slog.Int("season_matches", len(kept)))
	return nil
}

// matchesMarkers reports whether a market question belongs to the configured
// award season: it must mention the year and, when keywords are configured,
// at least one of them.
func (a *SearchAdapter) matchesMarkers(question string) bool {
	q := strings.ToLower(question)
	if a.markers.Year != "" && !strings.Contains(q, strings.ToLower(a.markers.Year)) {
		return false
	}
	if len(a.markers.Keywords) == 0 {
		return true
	}
	for _, kw := range a.markers.Keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// parseSearchMarket normalizes one listing market into a quote. The name
// comes from groupItemTitle when present, otherwise the first entry of the
// outcomes array.
func parseSearchMarket(m *polymarket.APIMarket) (domain.Quote, error) {
	name := m.GroupItemTitle
	if name == "" {
		outcomes, err := m.OutcomeList()
		if err != nil {
			return domain.Quote{}, fmt.Errorf("market %s: decode outcomes: %w", m.ID, err)
		}
		if len(outcomes) == 0 {
			return domain.Quote{}, fmt.Errorf("market %s: empty outcomes", m.ID)
		}
		name = outcomes[0]
	}

	q, err := parseGroupedMarket(&polymarket.APIMarket{
		ID:             m.ID,
		GroupItemTitle: name,
		OutcomePrices:  m.OutcomePrices,
	})
	if err != nil {
		return domain.Quote{}, err
	}
	return q, nil
}
