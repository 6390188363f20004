// Package source normalizes provider market data into quote lists. Each
// adapter fetches raw markets for one award category and converts them into
// (name, probability, odds) quotes, applying source-specific noise filtering.
package source

import (
	"context"

	"github.com/awardsdesk/oddsbot/internal/domain"
)

// Adapter fetches raw markets for a category and returns normalized quotes.
//
// A returned error means the whole fetch failed (transport, status, decode);
// callers recover by skipping the category for the run. Malformed individual
// markets never produce an error: they are skipped item by item and the rest
// of the batch survives.
type Adapter interface {
	Source() domain.Source
	Quotes(ctx context.Context, cat domain.Category) ([]domain.Quote, error)
}
