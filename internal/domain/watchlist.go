package domain

import (
	"errors"
	"strings"
)

// WatchlistEntry represents one instrument the user wants visibility into,
// independent of whether it is held in the ledger.
type WatchlistEntry struct {
	Code       string
	AssetClass AssetClass
	Sector     string // optional, e.g. "Logística", "Shoppings"
}

// Validate ensures the watchlist entry adheres to domain rules
func (w *WatchlistEntry) Validate() error {
	if strings.TrimSpace(w.Code) == "" {
		return errors.New("watchlist entry code cannot be empty")
	}

	if w.AssetClass == "" {
		return errors.New("watchlist entry asset class cannot be empty")
	}

	return nil
}
