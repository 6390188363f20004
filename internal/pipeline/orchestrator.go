package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Snapshotter flushes the latest cached quotes for a set of category paths to
// cold storage.
type Snapshotter interface {
	SnapshotAll(ctx context.Context, paths []string, ts time.Time) error
}

// Orchestrator supervises the long-running poll mode: the category update
// loop and the periodic quote-snapshot archiver.
type Orchestrator struct {
	runner          *Runner
	snapshotter     Snapshotter // may be nil
	updateInterval  time.Duration
	archiveInterval time.Duration
	logger          *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(runner *Runner, snapshotter Snapshotter, updateInterval, archiveInterval time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		runner:          runner,
		snapshotter:     snapshotter,
		updateInterval:  updateInterval,
		archiveInterval: archiveInterval,
		logger:          logger.With(slog.String("component", "orchestrator")),
	}
}

// Run starts the loops as errgroup goroutines and blocks until the context is
// cancelled or a loop fails with a non-context error.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("orchestrator starting",
		slog.Duration("update_interval", o.updateInterval),
		slog.Duration("archive_interval", o.archiveInterval),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := o.runner.RunLoop(ctx, o.updateInterval)
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return fmt.Errorf("update loop: %w", err)
	})

	if o.snapshotter != nil {
		g.Go(func() error {
			err := o.runArchiveLoop(ctx)
			if ctx.Err() != nil {
				return nil // clean shutdown
			}
			return fmt.Errorf("archive loop: %w", err)
		})
	}

	if err := g.Wait(); err != nil {
		o.logger.Error("orchestrator stopped with error", slog.String("error", err.Error()))
		return err
	}

	o.logger.Info("orchestrator stopped cleanly")
	return nil
}

// runArchiveLoop snapshots cached quotes on a fixed interval. Snapshot
// failures are logged and retried on the next tick.
func (o *Orchestrator) runArchiveLoop(ctx context.Context) error {
	ticker := time.NewTicker(o.archiveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("archive loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := o.snapshotter.SnapshotAll(ctx, o.runner.Paths(), time.Now().UTC()); err != nil {
				o.logger.Error("quote snapshot failed", slog.String("error", err.Error()))
			}
		}
	}
}
