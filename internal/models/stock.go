package models

// Stock is the reference record for a listed security, keyed by symbol.
type Stock struct {
	Symbol      string       `json:"symbol"`
	Name        string       `json:"name"`
	Sector      string       `json:"sector,omitempty"`
	Exchange    string       `json:"exchange,omitempty"`
	LatestPrice *LatestPrice `json:"latest_price,omitempty"`
}

// LatestPrice is the most recent quote attached to a stock reference.
type LatestPrice struct {
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// PriceBar is a full OHLCV quote as returned by the stock detail endpoint.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PricePoint is one entry of a price history series.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// Fundamentals holds the server-computed fundamental ratios for a stock.
// All analytics are server-side; the client only renders them.
type Fundamentals struct {
	MarketCap     float64 `json:"market_cap,omitempty"`
	PERatio       float64 `json:"pe_ratio,omitempty"`
	PBRatio       float64 `json:"pb_ratio,omitempty"`
	EPS           float64 `json:"eps,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
	Beta          float64 `json:"beta,omitempty"`
}

// StockDetail is the single payload returned by GET stocks/:symbol/?range=.
// The price history arrives already trimmed server-side to the requested range.
type StockDetail struct {
	Symbol             string        `json:"symbol"`
	Name               string        `json:"name"`
	Description        string        `json:"description,omitempty"`
	LatestPrice        *PriceBar     `json:"latest_price,omitempty"`
	PriceChange        float64       `json:"price_change"`
	PriceChangePercent float64       `json:"price_change_percent"`
	Fundamentals       *Fundamentals `json:"fundamentals,omitempty"`
	PriceHistory       []PricePoint  `json:"price_history"`
}

// HistoryRange identifies a historical price range selectable on the detail view.
type HistoryRange string

const (
	RangeWeek      HistoryRange = "1w"
	RangeMonth     HistoryRange = "1m"
	RangeYear      HistoryRange = "1y"
	RangeThreeYear HistoryRange = "3y"
	RangeFiveYear  HistoryRange = "5y"
)

// Valid reports whether r is one of the ranges the detail endpoint accepts.
func (r HistoryRange) Valid() bool {
	switch r {
	case RangeWeek, RangeMonth, RangeYear, RangeThreeYear, RangeFiveYear:
		return true
	}
	return false
}
