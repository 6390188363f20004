package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/notify"
	"github.com/awardsdesk/oddsbot/internal/source"
)

// Job binds one category to the adapter that serves it.
type Job struct {
	Adapter  source.Adapter
	Category domain.Category
}

// invalidator is implemented by adapters that memoize listings across
// categories and need a reset at the start of every run.
type invalidator interface {
	Invalidate()
}

// Runner executes a full update run: every configured category, sequentially,
// with a limiter wait between fetches to stay under upstream rate limits. A
// failed category is logged and skipped; the run itself only fails on context
// cancellation.
type Runner struct {
	updater  *CategoryUpdater
	limiter  domain.RateLimiter // may be nil
	notifier *notify.Notifier   // may be nil
	jobs     []Job
	logger   *slog.Logger
}

// NewRunner creates a Runner over the given jobs.
func NewRunner(updater *CategoryUpdater, limiter domain.RateLimiter, notifier *notify.Notifier, jobs []Job, logger *slog.Logger) *Runner {
	return &Runner{
		updater:  updater,
		limiter:  limiter,
		notifier: notifier,
		jobs:     jobs,
		logger:   logger.With(slog.String("component", "runner")),
	}
}

// Paths returns the storage paths of all configured categories, in job order.
func (r *Runner) Paths() []string {
	paths := make([]string, 0, len(r.jobs))
	for _, j := range r.jobs {
		paths = append(paths, j.Category.Path)
	}
	return paths
}

// Run executes one sequential pass over all jobs.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New().String()
	started := time.Now()
	logger := r.logger.With(slog.String("run_id", runID))

	// Memoizing adapters re-fetch once per run, not once per process.
	seen := map[source.Adapter]bool{}
	for _, j := range r.jobs {
		if seen[j.Adapter] {
			continue
		}
		seen[j.Adapter] = true
		if inv, ok := j.Adapter.(invalidator); ok {
			inv.Invalidate()
		}
	}

	updated, failed := 0, 0
	for _, j := range r.jobs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline: run cancelled: %w", err)
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx, "source:"+string(j.Adapter.Source())); err != nil {
				return fmt.Errorf("pipeline: rate limiter: %w", err)
			}
		}

		n, err := r.updater.Update(ctx, j.Adapter, j.Category)
		if err != nil {
			failed++
			logger.WarnContext(ctx, "category skipped",
				slog.String("category", j.Category.Path),
				slog.String("error", err.Error()),
			)
			continue
		}
		updated += n
	}

	logger.InfoContext(ctx, "run complete",
		slog.Int("categories", len(r.jobs)),
		slog.Int("odds_updated", updated),
		slog.Int("failed", failed),
		slog.Duration("elapsed", time.Since(started)),
	)

	if r.notifier != nil {
		msg := fmt.Sprintf("%d categories, %d odds updated, %d skipped", len(r.jobs), updated, failed)
		if err := r.notifier.Notify(ctx, "run_complete", "Odds run complete", msg); err != nil {
			logger.WarnContext(ctx, "run notification failed", slog.String("error", err.Error()))
		}
	}

	return nil
}

// RunLoop runs the update pass on a repeating interval until the context is
// cancelled. The first pass starts immediately.
func (r *Runner) RunLoop(ctx context.Context, interval time.Duration) error {
	if err := r.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("update loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.Run(ctx); err != nil {
				return err
			}
		}
	}
}
