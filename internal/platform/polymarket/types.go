package polymarket

import (
	"encoding/json"
	"strings"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// APIEvent represents an event as returned by the Gamma API. An event groups
// one or more related markets; for award categories each market is one
// contender.
type APIEvent struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Slug    string      `json:"slug"`
	Active  flexBool    `json:"active"`
	Closed  bool        `json:"closed"`
	Markets []APIMarket `json:"markets"`
}

// APIMarket represents a market as returned by the Gamma API.
//
// Outcomes and OutcomePrices arrive double-encoded: JSON strings that
// themselves contain JSON arrays of strings, e.g. "[\"Yes\",\"No\"]" and
// "[\"0.82\",\"0.18\"]".
type APIMarket struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Slug           string   `json:"slug"`
	GroupItemTitle string   `json:"groupItemTitle"`
	Outcomes       string   `json:"outcomes"`
	OutcomePrices  string   `json:"outcomePrices"`
	Active         flexBool `json:"active"`
	Closed         bool     `json:"closed"`
	Volume         string   `json:"volume"`
}

// OutcomeList decodes the market's double-encoded outcomes array.
func (m *APIMarket) OutcomeList() ([]string, error) {
	var outcomes []string
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// PriceList decodes the market's double-encoded outcome prices array. The
// first element is the market-implied win probability of the first outcome.
func (m *APIMarket) PriceList() ([]string, error) {
	var prices []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil {
		return nil, err
	}
	return prices, nil
}
