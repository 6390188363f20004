package domain

// Quote is a single source's probability-derived odds estimate for one
// candidate. Quotes live for one fetch cycle and are never persisted as-is.
type Quote struct {
	// Name is the candidate name as the source spells it.
	Name string
	// Probability is the market-implied win probability in (0,1).
	Probability float64
	// Odds is the American-odds string encoding of Probability.
	Odds string
}
