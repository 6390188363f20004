package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/match"
)

// memoAdapter counts Invalidate calls on top of fakeAdapter.
type memoAdapter struct {
	fakeAdapter
	invalidations int
}

func (m *memoAdapter) Invalidate() { m.invalidations++ }

// fakeLimiter records Wait keys.
type fakeLimiter struct {
	keys []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeLimiter) Wait(ctx context.Context, key string) error {
	f.keys = append(f.keys, key)
	return nil
}

var _ domain.RateLimiter = (*fakeLimiter)(nil)

func TestRunnerProcessesAllJobs(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture":  {{Name: "Oppenheimer", Position: 0}},
		"oscars/best-director": {{Name: "Christopher Nolan", Position: 0}},
	}}
	updater := newUpdater(store, nil)

	poly := &memoAdapter{fakeAdapter: fakeAdapter{src: domain.SourcePolymarket, quotes: []domain.Quote{
		{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"},
	}}}
	kal := &fakeAdapter{src: domain.SourceKalshi, quotes: []domain.Quote{
		{Name: "Christopher Nolan", Probability: 0.745, Odds: "-292"},
	}}

	limiter := &fakeLimiter{}
	jobs := []Job{
		{Adapter: poly, Category: domain.Category{Source: domain.SourcePolymarket, Path: "oscars/best-picture"}},
		{Adapter: poly, Category: domain.Category{Source: domain.SourcePolymarket, Path: "oscars/best-director"}},
		{Adapter: kal, Category: domain.Category{Source: domain.SourceKalshi, Path: "oscars/best-director"}},
	}
	runner := NewRunner(updater, limiter, nil, jobs, testLogger())

	require.NoError(t, runner.Run(context.Background()))

	// One Invalidate per memoizing adapter per run, even when the adapter
	// serves several categories.
	assert.Equal(t, 1, poly.invalidations)

	// One limiter wait per job, keyed by source.
	assert.Equal(t, []string{"source:polymarket", "source:polymarket", "source:kalshi"}, limiter.keys)

	assert.Equal(t, []string{"oscars/best-picture", "oscars/best-director", "oscars/best-director"}, runner.Paths())
}

func TestRunnerSkipsFailedCategory(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-picture": {{Name: "Oppenheimer", Position: 0}},
	}}
	updater := newUpdater(store, nil)

	broken := &fakeAdapter{src: domain.SourcePolymarket, err: errors.New("gamma down")}
	healthy := &fakeAdapter{src: domain.SourceKalshi, quotes: []domain.Quote{
		{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"},
	}}

	jobs := []Job{
		{Adapter: broken, Category: domain.Category{Source: domain.SourcePolymarket, Path: "oscars/best-picture"}},
		{Adapter: healthy, Category: domain.Category{Source: domain.SourceKalshi, Path: "oscars/best-picture"}},
	}
	runner := NewRunner(updater, nil, nil, jobs, testLogger())

	// A failing adapter must not abort the run; the healthy job still writes.
	require.NoError(t, runner.Run(context.Background()))
	require.Len(t, store.writes, 1)
	assert.Equal(t, domain.SourceKalshi, store.writes[0].source)
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{}}
	updater := newUpdater(store, nil)

	adapter := &fakeAdapter{src: domain.SourcePolymarket}
	jobs := []Job{{Adapter: adapter, Category: domain.Category{Path: "p"}}}
	runner := NewRunner(updater, nil, nil, jobs, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// Strict matcher conflicts surface as a skipped category, not a failed run.
func TestRunnerStrictConflictSkips(t *testing.T) {
	store := &fakeStore{nominees: map[string][]domain.Nominee{
		"oscars/best-actor": {
			{Name: "Ryan Gosling", Position: 0},
			{Name: "Ryan Reynolds", Position: 1},
		},
	}}
	updater := NewCategoryUpdater(store, match.New(match.Strict), nil, nil,
		func() time.Time { return runDate }, testLogger())

	adapter := &fakeAdapter{src: domain.SourcePolymarket, quotes: []domain.Quote{
		{Name: "Ryan", Probability: 0.4, Odds: "+150"},
	}}
	jobs := []Job{{Adapter: adapter, Category: domain.Category{Path: "oscars/best-actor"}}}
	runner := NewRunner(updater, nil, nil, jobs, testLogger())

	require.NoError(t, runner.Run(context.Background()))
	assert.Empty(t, store.writes)
}
