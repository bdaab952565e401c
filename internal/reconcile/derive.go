// Package reconcile keeps client-cached portfolio and watchlist state aligned
// with server-authoritative aggregates under optimistic local actions.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/bortal/bortal-go/internal/models"
)

var hundred = decimal.NewFromInt(100)

// DeriveHoldings enriches the server holding aggregates with values derived
// from each stock's latest price. Quantity and average cost are server truth
// and pass through untouched; only the price-dependent fields are computed
// here. Fully divested positions (quantity 0) are dropped.
func DeriveHoldings(records []models.HoldingRecord) []models.Holding {
	holdings := make([]models.Holding, 0, len(records))
	totalValue := decimal.Zero

	for _, rec := range records {
		if rec.Quantity == 0 {
			continue
		}

		var lastPrice decimal.Decimal
		if rec.Stock.LatestPrice != nil {
			lastPrice = decimal.NewFromFloat(rec.Stock.LatestPrice.Price)
		}

		quantity := decimal.NewFromFloat(rec.Quantity)
		avgCost := decimal.NewFromFloat(rec.AverageCost)

		currentValue := quantity.Mul(lastPrice)
		costBasis := quantity.Mul(avgCost)
		profitLoss := currentValue.Sub(costBasis)

		profitLossPct := decimal.Zero
		if !costBasis.IsZero() {
			profitLossPct = profitLoss.Div(costBasis).Mul(hundred)
		}

		totalValue = totalValue.Add(currentValue)

		holdings = append(holdings, models.Holding{
			Stock:             rec.Stock,
			Quantity:          rec.Quantity,
			AverageCost:       rec.AverageCost,
			LastPrice:         lastPrice.InexactFloat64(),
			CurrentValue:      currentValue.Round(2).InexactFloat64(),
			ProfitLoss:        profitLoss.Round(2).InexactFloat64(),
			ProfitLossPercent: profitLossPct.Round(2).InexactFloat64(),
		})
	}

	// Second pass: portfolio weights need the total.
	if !totalValue.IsZero() {
		for i := range holdings {
			weight := decimal.NewFromFloat(holdings[i].CurrentValue).Div(totalValue).Mul(hundred)
			holdings[i].WeightPercent = weight.Round(2).InexactFloat64()
		}
	}

	return holdings
}
