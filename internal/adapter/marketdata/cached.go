package marketdata

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// DefaultQuoteTTL matches how long a dashboard refresh may serve the same
// quote before refetching.
const DefaultQuoteTTL = 15 * time.Minute

// CachedProvider decorates another provider with a per-instrument TTL cache,
// so repeated dashboard refreshes within the TTL do not hit the upstream
// source again. Error snapshots are cached too: a failing ticker should not
// be retried on every page render.
type CachedProvider struct {
	inner  domain.MarketDataProvider
	quotes *cache.Cache
}

// NewCachedProvider wraps the given provider with the given TTL
func NewCachedProvider(inner domain.MarketDataProvider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &CachedProvider{
		inner:  inner,
		quotes: cache.New(ttl, 2*ttl),
	}
}

// Fetch serves cached snapshots where fresh and fetches the rest from the
// wrapped provider in a single upstream call.
func (p *CachedProvider) Fetch(ctx context.Context, codes []string) (map[string]*domain.MarketSnapshot, error) {
	snapshots := make(map[string]*domain.MarketSnapshot, len(codes))

	var missing []string
	for _, code := range codes {
		if cached, ok := p.quotes.Get(code); ok {
			snapshots[code] = cached.(*domain.MarketSnapshot)
			continue
		}
		missing = append(missing, code)
	}

	if len(missing) > 0 {
		fetched, err := p.inner.Fetch(ctx, missing)
		if err != nil {
			return nil, err
		}
		for code, snap := range fetched {
			p.quotes.SetDefault(code, snap)
			snapshots[code] = snap
		}
	}

	return snapshots, nil
}
