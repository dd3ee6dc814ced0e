package offer

import (
	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeTotals sums each tier's price across items.
// Sums are accumulated in decimal so that repeated edits never drift.
func ComputeTotals(items []models.LineItem) models.Totals {
	var standard, optimal, premium decimal.Decimal
	for _, item := range items {
		standard = standard.Add(decimal.NewFromFloat(item.Prices.Standard))
		optimal = optimal.Add(decimal.NewFromFloat(item.Prices.Optimal))
		premium = premium.Add(decimal.NewFromFloat(item.Prices.Premium))
	}
	return models.Totals{
		Standard: standard.InexactFloat64(),
		Optimal:  optimal.InexactFloat64(),
		Premium:  premium.InexactFloat64(),
	}
}
