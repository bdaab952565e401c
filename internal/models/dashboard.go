package models

// Dashboard is the aggregate payload backing the portal landing page widgets.
// Every section is server-assembled; the client renders it as-is.
type Dashboard struct {
	MarketOverview []MarketIndex `json:"market_overview"`
	Watchlists     []Watchlist   `json:"watchlists"`
	Portfolios     []Portfolio   `json:"portfolios"`
}
