package domain

import (
	"context"
	"time"
)

// NomineeStore persists canonical nominee lists keyed by category path.
//
// Implementations must preserve list order and must never create or delete
// nominees; SetOdds is a partial update touching only one odds key and the
// last-updated stamp.
type NomineeStore interface {
	// ListByPath returns the ordered nominee list stored at path. It returns
	// ErrNotFound when the path holds no nominees.
	ListByPath(ctx context.Context, path string) ([]Nominee, error)

	// SetOdds writes odds.<source> = odds and last_updated = updated for the
	// nominee at the given position under path.
	SetOdds(ctx context.Context, path string, position int, source Source, odds string, updated time.Time) error
}
