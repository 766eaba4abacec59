package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() Transaction {
	return Transaction{
		Code:         "XPLG11",
		AssetClass:   AssetClassFII,
		PurchaseDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Quantity:     50,
		UnitPrice:    decimal.RequireFromString("95.50"),
		Fees:         decimal.RequireFromString("4.90"),
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Valid purchase should pass",
			mutate:  func(tx *Transaction) {},
			wantErr: false,
		},
		{
			name:    "Blank code should fail",
			mutate:  func(tx *Transaction) { tx.Code = "   " },
			wantErr: true,
			errMsg:  "transaction code cannot be empty",
		},
		{
			name:    "Missing asset class should fail",
			mutate:  func(tx *Transaction) { tx.AssetClass = "" },
			wantErr: true,
			errMsg:  "transaction asset class cannot be empty",
		},
		{
			name:    "Zero purchase date should fail",
			mutate:  func(tx *Transaction) { tx.PurchaseDate = time.Time{} },
			wantErr: true,
			errMsg:  "transaction purchase date is required",
		},
		{
			name:    "Zero quantity should fail",
			mutate:  func(tx *Transaction) { tx.Quantity = 0 },
			wantErr: true,
			errMsg:  "transaction quantity must be positive",
		},
		{
			name:    "Negative quantity should fail",
			mutate:  func(tx *Transaction) { tx.Quantity = -10 },
			wantErr: true,
			errMsg:  "transaction quantity must be positive",
		},
		{
			name:    "Zero unit price should fail",
			mutate:  func(tx *Transaction) { tx.UnitPrice = decimal.Zero },
			wantErr: true,
			errMsg:  "transaction unit price must be positive",
		},
		{
			name:    "Negative fees should fail",
			mutate:  func(tx *Transaction) { tx.Fees = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "transaction fees cannot be negative",
		},
		{
			name:    "Zero fees should pass",
			mutate:  func(tx *Transaction) { tx.Fees = decimal.Zero },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)

			err := tx.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_TotalCost(t *testing.T) {
	// 50 x 95.50 + 4.90 = 4779.90
	tx := validTransaction()
	assert.True(t, decimal.RequireFromString("4779.90").Equal(tx.TotalCost()),
		"expected 4779.90, got %s", tx.TotalCost())

	// Fees default to zero: 25 x 99.80 = 2495.00
	tx = Transaction{
		Code:         "XPLG11",
		AssetClass:   AssetClassFII,
		PurchaseDate: time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC),
		Quantity:     25,
		UnitPrice:    decimal.RequireFromString("99.80"),
	}
	assert.True(t, decimal.RequireFromString("2495").Equal(tx.TotalCost()),
		"expected 2495, got %s", tx.TotalCost())
}

func TestWatchlistEntry_Validate(t *testing.T) {
	entry := WatchlistEntry{Code: "VALE3", AssetClass: AssetClassEquity, Sector: "Mineração"}
	assert.NoError(t, entry.Validate())

	entry.Code = ""
	assert.Error(t, entry.Validate())

	entry = WatchlistEntry{Code: "KNRI11"}
	assert.Error(t, entry.Validate())
}
