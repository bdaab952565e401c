package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bortal/bortal-go/internal/models"
)

func holdingRecord(symbol string, qty, avgCost, lastPrice float64) models.HoldingRecord {
	return models.HoldingRecord{
		Stock: models.Stock{
			Symbol:      symbol,
			Name:        symbol,
			LatestPrice: &models.LatestPrice{Price: lastPrice},
		},
		Quantity:    qty,
		AverageCost: avgCost,
	}
}

func TestDeriveHoldings(t *testing.T) {
	// 120 THYAO bought at an average of 183.75, last close 190.00.
	holdings := DeriveHoldings([]models.HoldingRecord{
		holdingRecord("THYAO", 120, 183.75, 190),
	})

	assert.Len(t, holdings, 1)
	h := holdings[0]
	assert.Equal(t, 120.0, h.Quantity)
	assert.Equal(t, 183.75, h.AverageCost)
	assert.Equal(t, 190.0, h.LastPrice)
	assert.Equal(t, 22800.0, h.CurrentValue)
	assert.Equal(t, 750.0, h.ProfitLoss)
	assert.Equal(t, 3.4, h.ProfitLossPercent)
	assert.Equal(t, 100.0, h.WeightPercent)
}

func TestDeriveHoldingsWeights(t *testing.T) {
	holdings := DeriveHoldings([]models.HoldingRecord{
		holdingRecord("THYAO", 100, 100, 150), // value 15000
		holdingRecord("GARAN", 100, 40, 50),   // value 5000
	})

	assert.Len(t, holdings, 2)
	assert.Equal(t, 75.0, holdings[0].WeightPercent)
	assert.Equal(t, 25.0, holdings[1].WeightPercent)
}

func TestDeriveHoldingsSkipsDivested(t *testing.T) {
	holdings := DeriveHoldings([]models.HoldingRecord{
		holdingRecord("THYAO", 0, 183.75, 190),
		holdingRecord("GARAN", 10, 40, 50),
	})

	assert.Len(t, holdings, 1)
	assert.Equal(t, "GARAN", holdings[0].Stock.Symbol)
}

func TestDeriveHoldingsZeroCostBasis(t *testing.T) {
	// A dividend-only position has no cost basis; percent P/L stays 0 rather
	// than dividing by zero.
	holdings := DeriveHoldings([]models.HoldingRecord{
		holdingRecord("THYAO", 10, 0, 190),
	})

	assert.Len(t, holdings, 1)
	assert.Equal(t, 1900.0, holdings[0].CurrentValue)
	assert.Equal(t, 1900.0, holdings[0].ProfitLoss)
	assert.Equal(t, 0.0, holdings[0].ProfitLossPercent)
}

func TestDeriveHoldingsMissingQuote(t *testing.T) {
	rec := models.HoldingRecord{
		Stock:       models.Stock{Symbol: "THYAO"},
		Quantity:    10,
		AverageCost: 100,
	}

	holdings := DeriveHoldings([]models.HoldingRecord{rec})

	assert.Len(t, holdings, 1)
	assert.Equal(t, 0.0, holdings[0].LastPrice)
	assert.Equal(t, 0.0, holdings[0].CurrentValue)
	assert.Equal(t, -1000.0, holdings[0].ProfitLoss)
	assert.Equal(t, -100.0, holdings[0].ProfitLossPercent)
}

func TestDeriveHoldingsEmpty(t *testing.T) {
	assert.Empty(t, DeriveHoldings(nil))
}
