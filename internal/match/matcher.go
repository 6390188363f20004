// Package match reconciles source quote lists against canonical nominee
// lists. Source spellings rarely agree with the seeded names ("Hanks" vs
// "Tom Hanks", surname-first orderings), so matching is fuzzy.
package match

import (
	"fmt"
	"strings"

	"github.com/awardsdesk/oddsbot/internal/domain"
)

// Mode selects how multi-matches are handled.
type Mode int

const (
	// Lenient permits two nominees to resolve to the same quote when the
	// substring relation holds both ways.
	Lenient Mode = iota
	// Strict requires a one-to-one assignment and reports a conflict
	// otherwise.
	Strict
)

// ParseMode converts a config string into a Mode. Unknown values default to
// Lenient.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "strict") {
		return Strict
	}
	return Lenient
}

// Matcher assigns quotes to canonical nominees.
type Matcher struct {
	mode Mode
}

// New creates a Matcher with the given mode.
func New(mode Mode) *Matcher {
	return &Matcher{mode: mode}
}

// Match maps canonical nominee indexes to their matched quote. Each nominee
// is evaluated independently against the full quote list; the first quote
// satisfying a rule wins, in quote-list order:
//
//  1. exact case-insensitive name equality,
//  2. quote name is a case-insensitive substring of the nominee name,
//  3. nominee name is a case-insensitive substring of the quote name.
//
// Unmatched nominees are simply absent from the result. In Strict mode a
// quote claimed by two nominees makes Match fail with ErrMatchConflict.
func (m *Matcher) Match(nominees []domain.Nominee, quotes []domain.Quote) (map[int]domain.Quote, error) {
	matched := make(map[int]domain.Quote)
	claimed := make(map[int]int) // quote index -> nominee index

	for ni := range nominees {
		qi, ok := findQuote(nominees[ni].Name, quotes)
		if !ok {
			continue
		}

		if prev, taken := claimed[qi]; taken && m.mode == Strict {
			return nil, fmt.Errorf("match: %w: quote %q claimed by both %q and %q",
				domain.ErrMatchConflict, quotes[qi].Name, nominees[prev].Name, nominees[ni].Name)
		}
		claimed[qi] = ni
		matched[ni] = quotes[qi]
	}

	return matched, nil
}

// findQuote returns the index of the first quote matching the nominee name
// under the three-rule cascade.
func findQuote(name string, quotes []domain.Quote) (int, bool) {
	lowerName := strings.ToLower(name)

	for qi := range quotes {
		lowerQuote := strings.ToLower(quotes[qi].Name)
		if lowerQuote == lowerName {
			return qi, true
		}
	}
	for qi := range quotes {
		lowerQuote := strings.ToLower(quotes[qi].Name)
		if strings.Contains(lowerName, lowerQuote) {
			return qi, true
		}
	}
	for qi := range quotes {
		lowerQuote := strings.ToLower(quotes[qi].Name)
		if strings.Contains(lowerQuote, lowerName) {
			return qi, true
		}
	}
	return 0, false
}
