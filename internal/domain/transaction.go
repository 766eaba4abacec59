package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass represents the class of a tracked instrument
type AssetClass string

const (
	AssetClassFII    AssetClass = "FII"  // Brazilian real-estate investment fund
	AssetClassEquity AssetClass = "ACAO" // common stock listed on B3
)

// Transaction represents a single purchase event in the ledger.
// The ledger is accumulation-only: there are no sell transactions.
type Transaction struct {
	Code         string // trimmed instrument ticker, e.g. "XPLG11"
	AssetClass   AssetClass
	PurchaseDate time.Time
	Quantity     int64
	UnitPrice    decimal.Decimal
	Fees         decimal.Decimal // brokerage and exchange fees, zero when absent
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Code) == "" {
		return errors.New("transaction code cannot be empty")
	}

	if t.AssetClass == "" {
		return errors.New("transaction asset class cannot be empty")
	}

	if t.PurchaseDate.IsZero() {
		return errors.New("transaction purchase date is required")
	}

	if t.Quantity <= 0 {
		return errors.New("transaction quantity must be positive")
	}

	if t.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction unit price must be positive")
	}

	if t.Fees.IsNegative() {
		return errors.New("transaction fees cannot be negative")
	}

	return nil
}

// TotalCost returns the full cost of the purchase: quantity x unit price plus fees.
func (t *Transaction) TotalCost() decimal.Decimal {
	return decimal.NewFromInt(t.Quantity).Mul(t.UnitPrice).Add(t.Fees)
}
