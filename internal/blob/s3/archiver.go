package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/awardsdesk/oddsbot/internal/domain"
)

// Archiver snapshots the latest cached quotes per category into object
// storage as JSONL, one file per category per day. Snapshots are an audit
// trail of what each source quoted; nothing in the bot reads them back.
type Archiver struct {
	writer domain.BlobWriter
	cache  domain.QuoteCache
	logger *slog.Logger
}

// NewArchiver creates an Archiver reading from cache and writing through
// writer.
func NewArchiver(writer domain.BlobWriter, cache domain.QuoteCache, logger *slog.Logger) *Archiver {
	return &Archiver{
		writer: writer,
		cache:  cache,
		logger: logger.With(slog.String("component", "archiver")),
	}
}

// SnapshotAll snapshots every given category path. Paths with no cached
// quotes are skipped; upload failures are collected so one bad path does not
// stop the rest.
func (a *Archiver) SnapshotAll(ctx context.Context, paths []string, ts time.Time) error {
	var failed []string
	written := 0

	for _, path := range paths {
		n, err := a.snapshot(ctx, path, ts)
		if err != nil {
			a.logger.ErrorContext(ctx, "snapshot failed",
				slog.String("category", path),
				slog.String("error", err.Error()),
			)
			failed = append(failed, path)
			continue
		}
		written += n
	}

	a.logger.InfoContext(ctx, "quote snapshots written",
		slog.Int("quotes", written),
		slog.Int("categories", len(paths)),
		slog.Int("failed", len(failed)),
	)

	if len(failed) > 0 {
		return fmt.Errorf("s3blob: snapshot failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

// snapshot uploads one category's cached quotes and returns how many quotes
// the snapshot holds. A cache miss returns zero without error.
func (a *Archiver) snapshot(ctx context.Context, path string, ts time.Time) (int, error) {
	quotes, fetchedAt, err := a.cache.GetQuotes(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache: %w", err)
	}
	if len(quotes) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(quotes, fetchedAt)
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}

	key := snapshotKey(path, ts)
	if err := a.writer.Put(ctx, key, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("upload %s: %w", key, err)
	}

	return len(quotes), nil
}

// snapshotKey builds the object key quotes/YYYY-MM-DD/<category>.jsonl, with
// path separators in the category flattened to keep one directory level per
// day.
func snapshotKey(path string, ts time.Time) string {
	flat := strings.ReplaceAll(path, "/", "__")
	return fmt.Sprintf("quotes/%s/%s.jsonl", ts.Format("2006-01-02"), flat)
}

// snapshotLine is one JSONL record in a quote snapshot.
type snapshotLine struct {
	Name        string    `json:"name"`
	Probability float64   `json:"probability"`
	Odds        string    `json:"odds"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// marshalJSONL renders quotes as newline-delimited JSON.
func marshalJSONL(quotes []domain.Quote, fetchedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, q := range quotes {
		line := snapshotLine{
			Name:        q.Name,
			Probability: q.Probability,
			Odds:        q.Odds,
			FetchedAt:   fetchedAt,
		}
		if err := enc.Encode(line); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
