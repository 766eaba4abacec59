package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendRecord represents one historical distribution event for an instrument:
// a rent payment for a FII, a dividend for a stock.
type DividendRecord struct {
	PaymentDate time.Time
	Value       decimal.Decimal  // value paid per unit
	Yield       *decimal.Decimal // yield percentage at payment, when known
}

// MarketSnapshot represents the current market view of one instrument.
// Nullable fields are pointers: a nil CurrentPrice signals a lookup failure,
// and Err carries the provider's reason verbatim so the presentation layer
// can surface it next to the affected instrument.
type MarketSnapshot struct {
	Code             string
	CurrentPrice     *decimal.Decimal
	DayChangePct     *decimal.Decimal
	PriceToBook      *decimal.Decimal // P/VP
	DividendYield12M *decimal.Decimal // trailing 12-month yield percent
	DailyVolume      *int64
	Err              *string

	// Drill-down detail, populated only by providers that supply it.
	Description string
	Segment     string
	FII         *FIIDetail
	Equity      *EquityDetail

	// Dividends holds the instrument's distribution history, oldest first.
	// Nil for instruments without payment-forecast support.
	Dividends []DividendRecord
}

// FIIDetail holds fund-specific indicators for the drill-down view
type FIIDetail struct {
	VacancyRatePct    decimal.Decimal
	PropertyCount     int64
	LeasableAreaM2    decimal.Decimal // ABL
	BookValuePerShare decimal.Decimal // VPA
}

// EquityDetail holds stock-specific indicators for the drill-down view
type EquityDetail struct {
	PriceToEarnings  decimal.Decimal
	ROEPct           decimal.Decimal
	NetMarginPct     decimal.Decimal
	DebtToEquity     decimal.Decimal
	RevenueGrowthPct decimal.Decimal
}
