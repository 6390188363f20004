// Package pipeline orchestrates the poll cycle: fetch quotes per category,
// match them against the stored nominee list, and write back changed odds.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/match"
	"github.com/awardsdesk/oddsbot/internal/notify"
	"github.com/awardsdesk/oddsbot/internal/source"
)

// CategoryUpdater runs one category end-to-end: adapter fetch, nominee
// matching, partial odds writes. It never creates or deletes nominees.
type CategoryUpdater struct {
	store    domain.NomineeStore
	matcher  *match.Matcher
	cache    domain.QuoteCache // may be nil
	notifier *notify.Notifier  // may be nil
	now      func() time.Time
	logger   *slog.Logger
}

// NewCategoryUpdater creates a CategoryUpdater. cache and notifier are
// optional; now defaults to time.Now when nil.
func NewCategoryUpdater(
	store domain.NomineeStore,
	matcher *match.Matcher,
	cache domain.QuoteCache,
	notifier *notify.Notifier,
	now func() time.Time,
	logger *slog.Logger,
) *CategoryUpdater {
	if now == nil {
		now = time.Now
	}
	return &CategoryUpdater{
		store:    store,
		matcher:  matcher,
		cache:    cache,
		notifier: notifier,
		now:      now,
		logger:   logger.With(slog.String("component", "updater")),
	}
}

// Update processes one category with the given adapter and returns the number
// of nominees whose odds were written. Empty quote lists and missing nominee
// lists are logged and skipped, not errors; a returned error means the
// category produced no update this run and the caller should move on.
func (u *CategoryUpdater) Update(ctx context.Context, adapter source.Adapter, cat domain.Category) (int, error) {
	quotes, err := adapter.Quotes(ctx, cat)
	if err != nil {
		return 0, fmt.Errorf("pipeline: %s: %w", cat.Path, err)
	}

	if len(quotes) == 0 {
		u.logger.InfoContext(ctx, "no quotes returned, skipping category",
			slog.String("category", cat.Path),
			slog.String("source", string(adapter.Source())),
		)
		return 0, nil
	}

	nominees, err := u.store.ListByPath(ctx, cat.Path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.logger.InfoContext(ctx, "no nominees seeded at path, skipping category",
				slog.String("category", cat.Path),
			)
			return 0, nil
		}
		return 0, fmt.Errorf("pipeline: %s: list nominees: %w", cat.Path, err)
	}

	matched, err := u.matcher.Match(nominees, quotes)
	if err != nil {
		return 0, fmt.Errorf("pipeline: %s: %w", cat.Path, err)
	}

	src := adapter.Source()
	today := u.now().UTC()
	updated := 0

	for ni := range nominees {
		q, ok := matched[ni]
		if !ok {
			continue
		}
		if nominees[ni].Odds[string(src)] == q.Odds {
			continue
		}

		if err := u.store.SetOdds(ctx, cat.Path, nominees[ni].Position, src, q.Odds, today); err != nil {
			return updated, fmt.Errorf("pipeline: %s: set odds for %q: %w", cat.Path, nominees[ni].Name, err)
		}
		updated++

		u.logger.InfoContext(ctx, "odds updated",
			slog.String("category", cat.Path),
			slog.String("source", string(src)),
			slog.String("nominee", nominees[ni].Name),
			slog.String("odds", q.Odds),
		)
	}

	u.trackFavorite(ctx, cat, quotes)

	return updated, nil
}

// trackFavorite caches the run's quote list and raises a favorite_change
// notification when the highest-probability contender differs from the
// previous cached run. Cache failures are logged and ignored.
func (u *CategoryUpdater) trackFavorite(ctx context.Context, cat domain.Category, quotes []domain.Quote) {
	if u.cache == nil {
		return
	}

	top := topQuote(quotes)

	prev, _, err := u.cache.GetQuotes(ctx, cat.Path)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.logger.WarnContext(ctx, "quote cache read failed",
			slog.String("category", cat.Path),
			slog.String("error", err.Error()),
		)
	}

	if err := u.cache.SetQuotes(ctx, cat.Path, quotes, u.now().UTC()); err != nil {
		u.logger.WarnContext(ctx, "quote cache write failed",
			slog.String("category", cat.Path),
			slog.String("error", err.Error()),
		)
	}

	if u.notifier == nil || len(prev) == 0 {
		return
	}

	prevTop := topQuote(prev)
	if prevTop.Name == top.Name {
		return
	}

	title := fmt.Sprintf("New favorite: %s", cat.DisplayName)
	msg := fmt.Sprintf("%s (%s) overtakes %s", top.Name, top.Odds, prevTop.Name)
	if err := u.notifier.Notify(ctx, "favorite_change", title, msg); err != nil {
		u.logger.WarnContext(ctx, "favorite change notification failed",
			slog.String("category", cat.Path),
			slog.String("error", err.Error()),
		)
	}
}

// topQuote returns the highest-probability quote; first wins on ties.
func topQuote(quotes []domain.Quote) domain.Quote {
	top := quotes[0]
	for _, q := range quotes[1:] {
		if q.Probability > top.Probability {
			top = q
		}
	}
	return top
}
