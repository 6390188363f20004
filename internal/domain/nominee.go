package domain

import "time"

// Source identifies a prediction-market provider. Source values are used as
// keys in a nominee's odds map, so renaming one is a data migration.
type Source string

const (
	SourcePolymarket Source = "polymarket"
	SourceKalshi     Source = "kalshi"
)

// Nominee is the canonical, pre-seeded record for a contender in an award
// category. Nominees are created by an external seeding process; this system
// only ever mutates the odds map and the last-updated stamp.
type Nominee struct {
	// Name is the authoritative display name, e.g. "Cillian Murphy".
	Name string
	// Odds maps a Source to the latest American-odds string from that source.
	Odds map[string]string
	// LastUpdated is the date of the most recent odds write.
	LastUpdated time.Time
	// Position is the nominee's index in the category's ordered list.
	Position int
}

// Category binds a provider-side identifier to a storage path. Categories are
// static configuration, never computed at runtime.
type Category struct {
	// Source selects which adapter serves this category.
	Source Source
	// Identifier is the provider-side address: a Gamma event slug, a Kalshi
	// series ticker, or empty for bulk-search categories.
	Identifier string
	// Path is the storage key for the category's nominee list,
	// e.g. "oscars/best-picture".
	Path string
	// Match is the category-specific substring used by the bulk-search
	// adapter to pick markets out of the global result set.
	Match string
	// DisplayName is the human-readable category name used in logs and
	// notifications.
	DisplayName string
}
