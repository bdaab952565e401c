package models

// Portfolio represents a user-owned stock portfolio
type Portfolio struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Currency    string            `json:"currency"`
	IsDefault   bool              `json:"is_default"`
	Summary     *PortfolioSummary `json:"summary,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
}

// PortfolioSummary is the server-computed rollup attached to each portfolio.
type PortfolioSummary struct {
	TotalValue        float64 `json:"total_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
	HoldingCount      int     `json:"holding_count"`
}

// PortfolioDetail is the GET portfolios/:id/ payload: the portfolio plus its
// holding aggregates and recent transactions.
type PortfolioDetail struct {
	Portfolio
	Holdings           []HoldingRecord `json:"holdings"`
	RecentTransactions []Transaction   `json:"recent_transactions,omitempty"`
}

// HoldingRecord is the authoritative server aggregate for a (portfolio, stock)
// pair. Quantity and AverageCost are rollups over the full transaction history;
// the client never recomputes them.
type HoldingRecord struct {
	Stock       Stock   `json:"stock"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"average_cost"`
}

// Holding is a holding record enriched with values derived from the latest
// price. Derived fields are client-computed; see reconcile.DeriveHoldings.
type Holding struct {
	Stock             Stock   `json:"stock"`
	Quantity          float64 `json:"quantity"`
	AverageCost       float64 `json:"average_cost"`
	LastPrice         float64 `json:"last_price"`
	CurrentValue      float64 `json:"current_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
	WeightPercent     float64 `json:"weight_percent"`
}

// TransactionType enumerates the immutable transaction kinds
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividend:
		return true
	}
	return false
}

// Transaction is an immutable buy/sell/dividend event within a portfolio.
type Transaction struct {
	ID              string          `json:"id"`
	PortfolioID     string          `json:"portfolio_id,omitempty"`
	StockSymbol     string          `json:"stock_symbol"`
	StockName       string          `json:"stock_name,omitempty"`
	TransactionType TransactionType `json:"transaction_type"`
	Quantity        float64         `json:"quantity"`
	PricePerUnit    float64         `json:"price_per_unit"`
	Fees            float64         `json:"fees"`
	TransactionDate string          `json:"transaction_date"`
	Notes           string          `json:"notes,omitempty"`
}

// TransactionDraft carries a new transaction to POST portfolios/:id/transactions/.
// For dividends PricePerUnit represents dividend per share.
type TransactionDraft struct {
	StockSymbol     string          `json:"stock_symbol"`
	TransactionType TransactionType `json:"transaction_type"`
	Quantity        float64         `json:"quantity"`
	PricePerUnit    float64         `json:"price_per_unit"`
	Fees            float64         `json:"fees"`
	TransactionDate string          `json:"transaction_date"`
	Notes           string          `json:"notes,omitempty"`
}

// DailyValue is one point of the portfolio performance series.
type DailyValue struct {
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	CostBasis float64 `json:"cost_basis,omitempty"`
}

// Performance is the full daily value series returned by
// GET portfolios/:id/performance/. Time-frame windowing happens client-side.
type Performance struct {
	PortfolioID string       `json:"portfolio_id,omitempty"`
	DailyValues []DailyValue `json:"daily_values"`
}

// TimeFrame identifies a trailing performance window
type TimeFrame string

const (
	TimeFrameWeek       TimeFrame = "1w"
	TimeFrameMonth      TimeFrame = "1m"
	TimeFrameThreeMonth TimeFrame = "3m"
	TimeFrameYear       TimeFrame = "1y"
	TimeFrameAll        TimeFrame = "all"
)

// Days returns the trailing window length in days, or 0 for an unbounded frame.
func (tf TimeFrame) Days() int {
	switch tf {
	case TimeFrameWeek:
		return 7
	case TimeFrameMonth:
		return 30
	case TimeFrameThreeMonth:
		return 90
	case TimeFrameYear:
		return 365
	default:
		return 0
	}
}
