package kalshi

// KalshiMarket represents a market as returned by the Kalshi REST API.
// Prices are integers in cents, 0-100.
type KalshiMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	YesSubTitle string `json:"yes_sub_title"`
	Status      string `json:"status"`
	LastPrice   int    `json:"last_price"`
	YesBid      int    `json:"yes_bid"`
	YesAsk      int    `json:"yes_ask"`
	Volume      int    `json:"volume"`
}

// ContenderName returns the market's contender display name. Series markets
// carry it in yes_sub_title; older payloads only fill subtitle or title.
func (m *KalshiMarket) ContenderName() string {
	if m.YesSubTitle != "" {
		return m.YesSubTitle
	}
	if m.Subtitle != "" {
		return m.Subtitle
	}
	return m.Title
}
