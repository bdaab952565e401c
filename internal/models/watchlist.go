package models

import "strings"

// Watchlist is a named, user-owned set of tracked stocks. Membership is a set
// unique by symbol; uniqueness is server-enforced on add.
type Watchlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	IsDefault   bool    `json:"is_default"`
	Stocks      []Stock `json:"stocks"`
}

// StockCount returns the number of tracked stocks.
func (w *Watchlist) StockCount() int {
	return len(w.Stocks)
}

// Contains reports whether symbol is already tracked (case-insensitive).
func (w *Watchlist) Contains(symbol string) bool {
	for _, s := range w.Stocks {
		if strings.EqualFold(s.Symbol, symbol) {
			return true
		}
	}
	return false
}
