package domain

import "github.com/shopspring/decimal"

// Position represents the consolidated holding of one instrument, derived
// from all of its purchase transactions. It is recomputed in full whenever
// the ledger changes, never mutated incrementally.
type Position struct {
	Code          string
	TotalQuantity int64
	TotalCost     decimal.Decimal
	AverageCost   *decimal.Decimal // nil when the total quantity is zero
}

// PaymentForecast represents the projected distribution for the current month.
// Available is false when no history supports a projection.
type PaymentForecast struct {
	Value     decimal.Decimal
	Available bool
}

// ValuationRow joins watchlist metadata, market data, the payment forecast
// and the ledger position for one watched instrument. Market and Position are
// nil when the corresponding source has no data for the instrument; the
// computed fields fall back to zero in that case so aggregate sums stay
// well-defined.
type ValuationRow struct {
	Code       string
	AssetClass AssetClass
	Sector     string

	Market   *MarketSnapshot
	Position *Position
	Forecast PaymentForecast

	MarketValue decimal.Decimal // quantity x current price, zero when either is missing
	GainLoss    decimal.Decimal // market value - total cost
	GainLossPct decimal.Decimal // zero when total cost is zero
}

// PortfolioTotals represents the whole-portfolio aggregate over held
// positions only (watched-but-not-held instruments do not contribute).
type PortfolioTotals struct {
	TotalCost   decimal.Decimal
	MarketValue decimal.Decimal
	GainLoss    decimal.Decimal
	GainLossPct decimal.Decimal
}
