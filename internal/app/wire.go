package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	s3blob "github.com/awardsdesk/oddsbot/internal/blob/s3"
	"github.com/awardsdesk/oddsbot/internal/cache/redis"
	"github.com/awardsdesk/oddsbot/internal/config"
	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/match"
	"github.com/awardsdesk/oddsbot/internal/notify"
	"github.com/awardsdesk/oddsbot/internal/pipeline"
	"github.com/awardsdesk/oddsbot/internal/platform/kalshi"
	"github.com/awardsdesk/oddsbot/internal/platform/polymarket"
	"github.com/awardsdesk/oddsbot/internal/source"
	"github.com/awardsdesk/oddsbot/internal/store/postgres"
)

// Dependencies bundles everything the application modes need to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	NomineeStore domain.NomineeStore
	QuoteCache   domain.QuoteCache
	RateLimiter  domain.RateLimiter
	Matcher      *match.Matcher
	Jobs         []pipeline.Job

	// Archiver is nil when S3 is disabled.
	Archiver *s3blob.Archiver

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.PoolMaxConns,
		MinConns: cfg.Database.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}
	deps.NomineeStore = postgres.NewNomineeStore(pgClient.Pool())

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	cacheTTL := time.Duration(cfg.Redis.CacheTTLMinutes) * time.Minute
	deps.QuoteCache = redis.NewQuoteCache(redisClient, cacheTTL)
	deps.RateLimiter = redis.NewRateLimiter(redisClient, cfg.Updater.RateLimit, cfg.Updater.RateWindow.Duration)

	// --- S3 blob storage (quote snapshots) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}

		writer := s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewArchiver(writer, deps.QuoteCache, logger)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Matching ---
	deps.Matcher = match.New(match.ParseMode(cfg.Updater.MatchMode))

	// --- Source adapters and jobs ---
	jobs, err := buildJobs(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: sources: %w", err)
	}
	deps.Jobs = jobs

	return deps, cleanup, nil
}

// buildJobs constructs the source adapters from configuration and binds every
// configured category to the adapter that serves it. Job order follows the
// config file: slug categories, then search categories, then Kalshi series.
func buildJobs(cfg *config.Config, logger *slog.Logger) ([]pipeline.Job, error) {
	patterns := cfg.Updater.Denylist
	if len(patterns) == 0 {
		patterns = source.DefaultDenylistPatterns()
	}
	deny, err := source.NewDenylist(patterns)
	if err != nil {
		return nil, fmt.Errorf("denylist: %w", err)
	}

	var jobs []pipeline.Job

	if len(cfg.Polymarket.Categories) > 0 || len(cfg.Polymarket.Search.Categories) > 0 {
		gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost)

		if len(cfg.Polymarket.Categories) > 0 {
			slugAdapter := source.NewSlugAdapter(gamma, deny, logger)
			for _, c := range cfg.Polymarket.Categories {
				jobs = append(jobs, pipeline.Job{
					Adapter: slugAdapter,
					Category: domain.Category{
						Source:      domain.SourcePolymarket,
						Identifier:  c.Slug,
						Path:        c.Path,
						DisplayName: c.Name,
					},
				})
			}
		}

		if len(cfg.Polymarket.Search.Categories) > 0 {
			markers := source.Markers{
				Year:     cfg.Polymarket.Search.Year,
				Keywords: cfg.Polymarket.Search.Keywords,
			}
			searchAdapter := source.NewSearchAdapter(gamma, deny, markers,
				cfg.Polymarket.Search.PageSize, cfg.Polymarket.Search.MaxOffset, logger)
			for _, c := range cfg.Polymarket.Search.Categories {
				jobs = append(jobs, pipeline.Job{
					Adapter: searchAdapter,
					Category: domain.Category{
						Source:      domain.SourcePolymarket,
						Path:        c.Path,
						Match:       c.Match,
						DisplayName: c.Name,
					},
				})
			}
		}
	}

	if len(cfg.Kalshi.Categories) > 0 {
		seriesAdapter := source.NewSeriesAdapter(kalshi.NewClient(cfg.Kalshi.BaseURL), logger)
		for _, c := range cfg.Kalshi.Categories {
			jobs = append(jobs, pipeline.Job{
				Adapter: seriesAdapter,
				Category: domain.Category{
					Source:      domain.SourceKalshi,
					Identifier:  c.Series,
					Path:        c.Path,
					DisplayName: c.Name,
				},
			})
		}
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("no categories configured")
	}

	return jobs, nil
}
