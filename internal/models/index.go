package models

// MarketIndex represents a market index (e.g. BIST100) with its latest level.
type MarketIndex struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol,omitempty"`
	LastValue     float64 `json:"last_value"`
	ChangePercent float64 `json:"change_percent"`
	StockCount    int     `json:"stock_count,omitempty"`
}

// MarketIndexDetail is the GET indices/:name/ payload.
type MarketIndexDetail struct {
	MarketIndex
	Stocks       []Stock      `json:"stocks,omitempty"`
	PriceHistory []PricePoint `json:"price_history,omitempty"`
}
