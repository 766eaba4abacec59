package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// Aggregate collapses the purchase ledger into one consolidated position per
// instrument code.
// Logic:
//  1. Group transactions by trimmed code (comparison is case-sensitive)
//  2. Per group: total quantity = sum of quantities,
//     total cost = sum of (quantity x unit price + fees)
//  3. Average cost = total cost / total quantity
//
// An empty ledger yields an empty map, which callers must treat as "no
// positions" rather than a failure. A group with zero total quantity leaves
// AverageCost nil instead of dividing; it cannot occur for validated
// transactions but must never produce NaN or a panic.
func Aggregate(transactions []domain.Transaction) map[string]*domain.Position {
	positions := make(map[string]*domain.Position)

	for _, tx := range transactions {
		code := strings.TrimSpace(tx.Code)

		pos, ok := positions[code]
		if !ok {
			pos = &domain.Position{Code: code}
			positions[code] = pos
		}

		pos.TotalQuantity += tx.Quantity
		pos.TotalCost = pos.TotalCost.Add(tx.TotalCost())
	}

	// Derive average cost once per group, guarding the zero-quantity case
	for _, pos := range positions {
		if pos.TotalQuantity > 0 {
			avg := pos.TotalCost.Div(decimal.NewFromInt(pos.TotalQuantity))
			pos.AverageCost = &avg
		}
	}

	return positions
}
