package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Valuate joins aggregated positions, market snapshots and payment forecasts
// into one ValuationRow per watchlist entry, in watchlist order, plus the
// whole-portfolio totals.
//
// Left-join semantics: a watched instrument missing from the market map or
// the position map still produces a row, with nil references and zeroed
// computed fields. Market value falls back to zero when the price is unknown,
// which keeps the sums well-defined at the cost of understating exposure for
// instruments the provider could not price. A position whose price is unknown
// therefore shows a gain/loss of -100%; product has not decided whether
// delisted instruments should be treated differently, so the figure is kept
// as-is.
//
// Totals are computed over held positions only, including positions for
// instruments that are not on the watchlist.
func Valuate(
	positions map[string]*domain.Position,
	market map[string]*domain.MarketSnapshot,
	forecasts map[string]domain.PaymentForecast,
	watchlist []domain.WatchlistEntry,
) ([]domain.ValuationRow, domain.PortfolioTotals) {
	rows := make([]domain.ValuationRow, 0, len(watchlist))

	for _, entry := range watchlist {
		row := domain.ValuationRow{
			Code:       entry.Code,
			AssetClass: entry.AssetClass,
			Sector:     entry.Sector,
			Market:     market[entry.Code],
			Position:   positions[entry.Code],
			Forecast:   forecasts[entry.Code],
		}

		if row.Position != nil {
			row.MarketValue = positionMarketValue(row.Position, row.Market)
			row.GainLoss = row.MarketValue.Sub(row.Position.TotalCost)
			row.GainLossPct = gainLossPct(row.GainLoss, row.Position.TotalCost)
		}

		rows = append(rows, row)
	}

	return rows, totals(positions, market)
}

// totals reduces the held positions to portfolio-level sums
func totals(positions map[string]*domain.Position, market map[string]*domain.MarketSnapshot) domain.PortfolioTotals {
	t := domain.PortfolioTotals{}

	for code, pos := range positions {
		t.TotalCost = t.TotalCost.Add(pos.TotalCost)
		t.MarketValue = t.MarketValue.Add(positionMarketValue(pos, market[code]))
	}

	t.GainLoss = t.MarketValue.Sub(t.TotalCost)
	t.GainLossPct = gainLossPct(t.GainLoss, t.TotalCost)
	return t
}

// positionMarketValue returns quantity x current price, or zero when the
// price is unknown.
func positionMarketValue(pos *domain.Position, snap *domain.MarketSnapshot) decimal.Decimal {
	if snap == nil || snap.CurrentPrice == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(pos.TotalQuantity).Mul(*snap.CurrentPrice)
}

// gainLossPct guards the zero-cost case: the percentage is defined as zero
// when the total cost is zero, for any market value.
func gainLossPct(gainLoss, totalCost decimal.Decimal) decimal.Decimal {
	if totalCost.IsZero() {
		return decimal.Zero
	}
	return gainLoss.Div(totalCost).Mul(hundred)
}
