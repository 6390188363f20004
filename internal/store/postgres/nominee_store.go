package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/awardsdesk/oddsbot/internal/domain"
)

// NomineeStore implements domain.NomineeStore using PostgreSQL.
type NomineeStore struct {
	pool *pgxpool.Pool
}

// NewNomineeStore creates a NomineeStore backed by the given connection pool.
func NewNomineeStore(pool *pgxpool.Pool) *NomineeStore {
	return &NomineeStore{pool: pool}
}

// ListByPath returns the ordered nominee list stored at the given category
// path. An empty result is domain.ErrNotFound: the category has not been
// seeded.
func (s *NomineeStore) ListByPath(ctx context.Context, path string) ([]domain.Nominee, error) {
	const query = `
		SELECT name, odds, last_updated, position
		FROM nominees
		WHERE category_path = $1
		ORDER BY position`

	rows, err := s.pool.Query(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("postgres: list nominees at %s: %w", path, err)
	}
	defer rows.Close()

	var nominees []domain.Nominee
	for rows.Next() {
		var n domain.Nominee
		var lastUpdated *time.Time
		if err := rows.Scan(&n.Name, &n.Odds, &lastUpdated, &n.Position); err != nil {
			return nil, fmt.Errorf("postgres: scan nominee at %s: %w", path, err)
		}
		if lastUpdated != nil {
			n.LastUpdated = *lastUpdated
		}
		if n.Odds == nil {
			n.Odds = map[string]string{}
		}
		nominees = append(nominees, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list nominees at %s: %w", path, err)
	}

	if len(nominees) == 0 {
		return nil, fmt.Errorf("postgres: nominees at %s: %w", path, domain.ErrNotFound)
	}

	return nominees, nil
}

// SetOdds patches a single source's odds value and the last-updated date for
// the nominee at (path, position). Only those two fields change; the rest of
// the row is untouched.
func (s *NomineeStore) SetOdds(ctx context.Context, path string, position int, source domain.Source, odds string, updated time.Time) error {
	const query = `
		UPDATE nominees
		SET odds = jsonb_set(odds, ARRAY[$1], to_jsonb($2::text), true),
		    last_updated = $3
		WHERE category_path = $4 AND position = $5`

	tag, err := s.pool.Exec(ctx, query, string(source), odds, updated, path, position)
	if err != nil {
		return fmt.Errorf("postgres: set odds at %s[%d]: %w", path, position, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: set odds at %s[%d]: %w", path, position, domain.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ domain.NomineeStore = (*NomineeStore)(nil)
