// Package odds converts market-implied win probabilities into betting-odds
// notation.
package odds

import (
	"fmt"
	"math"
	"strconv"
)

// American converts a win probability in the open interval (0,1) into an
// American-odds string. Probabilities at or above one half produce a negative
// favorite line ("-292"); anything below produces a plus-prefixed underdog
// line ("+292"). Exactly 0.5 is treated as a favorite and yields "-100".
//
// Degenerate probabilities (<= 0 or >= 1) are rejected: the division blows up
// at both ends and there is no meaningful line to quote for a certainty.
func American(probability float64) (string, error) {
	if probability <= 0 || probability >= 1 {
		return "", fmt.Errorf("odds: probability %v outside (0,1)", probability)
	}

	if probability >= 0.5 {
		line := math.Round(-probability * 100 / (1 - probability))
		return strconv.Itoa(int(line)), nil
	}

	line := math.Round((1 - probability) * 100 / probability)
	return "+" + strconv.Itoa(int(line)), nil
}
