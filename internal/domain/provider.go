package domain

import "context"

// MarketDataProvider defines the interface for market-data retrieval.
// Implementations must return one snapshot per requested code: when data for
// an instrument cannot be obtained the snapshot carries nil fields and a
// non-nil Err string instead of the instrument being omitted from the map.
type MarketDataProvider interface {
	// Fetch retrieves snapshots for the given instrument codes
	Fetch(ctx context.Context, codes []string) (map[string]*MarketSnapshot, error)
}
