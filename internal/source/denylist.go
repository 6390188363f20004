package source

import (
	"fmt"
	"regexp"
)

// Denylist filters out placeholder market names that Polymarket seeds into
// award events before the real field is announced ("Other", "Movie A",
// "Actor B", ...). Kalshi series are curated and do not need one.
type Denylist []*regexp.Regexp

// NewDenylist compiles the given patterns into a Denylist. Patterns are
// matched case-insensitively against the whole candidate name.
func NewDenylist(patterns []string) (Denylist, error) {
	deny := make(Denylist, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("source: compile denylist pattern %q: %w", p, err)
		}
		deny = append(deny, re)
	}
	return deny, nil
}

// Blocked reports whether the candidate name matches any denylist pattern.
func (d Denylist) Blocked(name string) bool {
	for _, re := range d {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// DefaultDenylistPatterns covers the placeholder families observed in
// Polymarket award events: a bare "Other" bucket and generic prefix+letter
// entries such as "Movie A" or "Actress C".
func DefaultDenylistPatterns() []string {
	return []string{
		"other",
		"(?:movie|film|actor|actress|director|song|artist) [a-z]",
	}
}
