// Package format renders numeric values the way the portal does: Turkish
// locale separators, lira by default. Pure functions, no state.
package format

import (
	"math"

	money "github.com/Rhymond/go-money"
)

// DefaultCurrency is the portal's display currency.
const DefaultCurrency = "TRY"

// numberFormatter renders plain numbers with tr-TR separators.
var numberFormatter = money.NewFormatter(2, ",", ".", "", "1")

// liraFormatter pins the tr-TR lira rendering: "₺22.800,00". The library's own
// TRY entry carries US-style separators, so the separators are set explicitly.
var liraFormatter = money.NewFormatter(2, ",", ".", "₺", "$1")

// Currency formats v as an amount in the default currency.
func Currency(v float64) string {
	return CurrencyCode(v, DefaultCurrency)
}

// CurrencyCode formats v as an amount in the given ISO currency. The default
// currency always renders tr-TR style; other currencies use their own symbol,
// separator and fraction rules.
func CurrencyCode(v float64, code string) string {
	if code == DefaultCurrency {
		return liraFormatter.Format(minorUnits(v, 2))
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return liraFormatter.Format(minorUnits(v, 2))
	}
	return money.New(minorUnits(v, cur.Fraction), cur.Code).Display()
}

// Number formats v with tr-TR grouping and two fraction digits.
func Number(v float64) string {
	return numberFormatter.Format(minorUnits(v, 2))
}

// Percent formats v (already in percent points) the way the Turkish locale
// writes percentages: sign before the number, e.g. "%3,40" and "-%2,15".
func Percent(v float64) string {
	if v < 0 {
		return "-%" + numberFormatter.Format(minorUnits(-v, 2))
	}
	return "%" + numberFormatter.Format(minorUnits(v, 2))
}

// SignedCurrency is Currency with an explicit "+" on gains.
func SignedCurrency(v float64) string {
	if v > 0 {
		return "+" + Currency(v)
	}
	return Currency(v)
}

// SignedPercent is Percent with an explicit "+" on gains.
func SignedPercent(v float64) string {
	if v > 0 {
		return "+" + Percent(v)
	}
	return Percent(v)
}

func minorUnits(v float64, fraction int) int64 {
	return int64(math.Round(v * math.Pow10(fraction)))
}
