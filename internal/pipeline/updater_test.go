package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/match"
	"github.com/awardsdesk/oddsbot/internal/source"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAdapter returns a canned quote list or error.
type fakeAdapter struct {
	src    domain.Source
	quotes []domain.Quote
	err    error
}

func (f *fakeAdapter) Source() domain.Source { return f.src }

func (f *fakeAdapter) Quotes(ctx context.Context, cat domain.Category) ([]domain.Quote, error) {
	return f.quotes, f.err
}

var _ source.Adapter = (*fakeAdapter)(nil)

// oddsWrite records one SetOdds call.
type oddsWrite struct {
	path     string
	position int
	source   domain.Source
	odds     string
	updated  time.Time
}

// fakeStore serves a fixed nominee list and records writes.
type fakeStore struct {
	nominees map[string][]domain.Nominee
	writes   []oddsWrite
	setErr   error
}

func (f *fakeStore) ListByPath(ctx context.Context, path string) ([]domain.Nominee, error) {
	n, ok := f.nominees[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

func (f *fakeStore) SetOdds(ctx context.Context, path string, position int, src domain.Source, odds string, updated time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.writes = append(f.writes, oddsWrite{path, position, src, odds, updated})
	return nil
}

var _ domain.NomineeStore = (*fakeStore)(nil)

// fakeCache is an in-memory QuoteCache.
type fakeCache struct {
	quotes map[string][]domain.Quote
	ts     map[string]time.Time
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		quotes: map[string][]domain.Quote{},
		ts:     map[string]time.Time{},
	}
}

func (f *fakeCache) SetQuotes(ctx context.Context, path string, quotes []domain.Quote, ts time.Time) error {
	f.quotes[path] = quotes
	f.ts[path] = ts
	return nil
}

func (f *fakeCache) GetQuotes(ctx context.Context, path string) ([]domain.Quote, time.Time, error) {
	q, ok := f.quotes[path]
	if !ok {
		return nil, time.Time{}, domain.ErrNotFound
	}
	return q, f.ts[path], nil
}

var _ domain.QuoteCache = (*fakeCache)(nil)

var runDate = time.Date(2026, time.February, 10, 14, 30, 0, 0, time.UTC)

func newUpdater(store *fakeStore, cache domain.QuoteCache) *CategoryUpdater {
	return NewCategoryUpdater(
		store,
		match.New(match.Lenient),
		cache,
		nil,
		func() time.Time { return runDate },
		testLogger(),
	)
}

func bestPicture() domain.Category {
	return domain.Category{
		Source:      domain.SourcePolymarket,
		Identifier:  "best-picture-2026",
		Path:        "oscars/best-picture",
		DisplayName: "Best Picture",
	}
}

func TestUpdateWritesChangedOdds(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture": {
			{Name: "Oppenheimer", Position: 0, Odds: map[string]string{"polymarket": "-400"}},
			{Name: "Barbie", Position: 1, Odds: map[string]string{}},
		},
	}}
	adapter := &fakeAdapter{src: domain.SourcePolymarket, quotes: []domain.Quote{
		{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"},
		{Name: "Barbie", Probability: 0.04, Odds: "+2400"},
	}}

	n, err := newUpdater(store, nil).Update(context.Background(), adapter, bestPicture())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, store.writes, 2)
	assert.Equal(t, oddsWrite{"oscars/best-picture", 0, domain.SourcePolymarket, "-456", runDate}, store.writes[0])
	assert.Equal(t, oddsWrite{"oscars/best-picture", 1, domain.SourcePolymarket, "+2400", runDate}, store.writes[1])
}

func TestUpdateSkipsUnchangedOdds(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture": {
			{Name: "Oppenheimer", Position: 0, Odds: map[string]string{"polymarket": "-456"}},
		},
	}}
	adapter := &fakeAdapter{src: domain.SourcePolymarket, quotes: []domain.Quote{
		{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"},
	}}

	n, err := newUpdater(store, nil).Update(context.Background(), adapter, bestPicture())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.writes)
}

func TestUpdateOnlyTouchesOwnSourceKey(t *testing.T) {
	// A fresh Kalshi line must be written even though the Polymarket line
	// already holds the same odds string.
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture": {
			{Name: "Oppenheimer", Position: 0, Odds: map[string]string{"polymarket": "-456"}},
		},
	}}
	adapter := &fakeAdapter{src: domain.SourceKalshi, quotes: []domain.Quote{
		{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"},
	}}

	n, err := newUpdater(store, nil).Update(context.Background(), adapter, bestPicture())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.writes, 1)
	assert.Equal(t, domain.SourceKalshi, store.writes[0].source)
}

func TestUpdateSkipsEmptyQuoteList(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture": {{Name: "Oppenheimer", Position: 0}},
	}}
	adapter := &fakeAdapter{src: domain.SourcePolymarket}

	n, err := newUpdater(store, nil).Update(context.Background(), adapter, bestPicture())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.writes)
}

func TestUpdateSkipsUnseededPath(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{}}
	adapter := &fakeAdapter{src: domain.SourcePolymarket, quotes: []domain.Quote{
		{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"},
	}}

	n, err := newUpdater(store, nil).Update(context.Background(), adapter, bestPicture())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateAdapterFailureIsError(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{}}
	adapter := &fakeAdapter{src: domain.SourcePolymarket, err: errors.New("gamma down")}

	_, err := newUpdater(store, nil).Update(context.Background(), adapter, bestPicture())
	require.Error(t, err)
}

func TestUpdateUnmatchedNomineeLeftAlone(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture": {
			{Name: "Oppenheimer", Position: 0},
			{Name: "Past Lives", Position: 1},
		},
	}}
	adapter := &fakeAdapter{src: domain.SourcePolymarket, quotes: []domain.Quote{
		{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"},
	}}

	n, err := newUpdater(store, nil).Update(context.Background(), adapter, bestPicture())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.writes, 1)
	assert.Equal(t, 0, store.writes[0].position)
}

func TestUpdateCachesQuotes(t *testing.T) {
	cache := newFakeCache()
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture": {{Name: "Oppenheimer", Position: 0}},
	}}
	quotes := []domain.Quote{{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"}}
	adapter := &fakeAdapter{src: domain.SourcePolymarket, quotes: quotes}

	_, err := newUpdater(store, cache).Update(context.Background(), adapter, bestPicture())
	require.NoError(t, err)

	cached, ts, err := cache.GetQuotes(context.Background(), "oscars/best-picture")
	require.NoError(t, err)
	assert.Equal(t, quotes, cached)
	assert.Equal(t, runDate, ts)
}
