package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/awardsdesk/oddsbot/internal/pipeline"
)

// newRunner assembles the update pipeline from wired dependencies.
func (a *App) newRunner(deps *Dependencies) *pipeline.Runner {
	updater := pipeline.NewCategoryUpdater(
		deps.NomineeStore,
		deps.Matcher,
		deps.QuoteCache,
		deps.Notifier,
		nil,
		a.logger,
	)
	return pipeline.NewRunner(updater, deps.RateLimiter, deps.Notifier, deps.Jobs, a.logger)
}

// OnceMode executes a single update pass over all configured categories and
// exits. When S3 is enabled it also snapshots the fetched quotes before
// returning, so ad-hoc runs leave the same audit trail as the poll loop.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	runner := a.newRunner(deps)

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("app: once mode: %w", err)
	}

	if deps.Archiver != nil {
		if err := deps.Archiver.SnapshotAll(ctx, runner.Paths(), time.Now().UTC()); err != nil {
			// The odds run itself succeeded; a snapshot failure is not fatal.
			a.logger.WarnContext(ctx, "quote snapshot failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// PollMode runs the update loop and the snapshot archiver until the context is
// cancelled.
func (a *App) PollMode(ctx context.Context, deps *Dependencies) error {
	runner := a.newRunner(deps)

	var snapshotter pipeline.Snapshotter
	if deps.Archiver != nil {
		snapshotter = deps.Archiver
	}

	orch := pipeline.NewOrchestrator(
		runner,
		snapshotter,
		a.cfg.Updater.Interval.Duration,
		a.cfg.Updater.ArchiveInterval.Duration,
		a.logger,
	)
	return orch.Run(ctx)
}
