package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// countingProvider records which codes each Fetch call asked for
type countingProvider struct {
	inner domain.MarketDataProvider
	calls [][]string
}

func (p *countingProvider) Fetch(ctx context.Context, codes []string) (map[string]*domain.MarketSnapshot, error) {
	p.calls = append(p.calls, codes)
	return p.inner.Fetch(ctx, codes)
}

func TestCachedProvider_SecondFetchIsServedFromCache(t *testing.T) {
	counting := &countingProvider{inner: fixedProvider()}
	cached := NewCachedProvider(counting, time.Minute)
	ctx := context.Background()

	first, err := cached.Fetch(ctx, []string{"XPLG11", "ITUB4"})
	require.NoError(t, err)
	second, err := cached.Fetch(ctx, []string{"XPLG11", "ITUB4"})
	require.NoError(t, err)

	assert.Len(t, counting.calls, 1, "second fetch must not reach the upstream provider")
	assert.Equal(t, first, second)
}

func TestCachedProvider_OnlyMissesGoUpstream(t *testing.T) {
	counting := &countingProvider{inner: fixedProvider()}
	cached := NewCachedProvider(counting, time.Minute)
	ctx := context.Background()

	_, err := cached.Fetch(ctx, []string{"XPLG11"})
	require.NoError(t, err)
	snapshots, err := cached.Fetch(ctx, []string{"XPLG11", "VALE3"})
	require.NoError(t, err)

	require.Len(t, counting.calls, 2)
	assert.Equal(t, []string{"VALE3"}, counting.calls[1])
	assert.Len(t, snapshots, 2)
}

func TestCachedProvider_ErrorSnapshotsAreCachedToo(t *testing.T) {
	counting := &countingProvider{inner: fixedProvider()}
	cached := NewCachedProvider(counting, time.Minute)
	ctx := context.Background()

	_, err := cached.Fetch(ctx, []string{"ZZZZ99"})
	require.NoError(t, err)
	snapshots, err := cached.Fetch(ctx, []string{"ZZZZ99"})
	require.NoError(t, err)

	assert.Len(t, counting.calls, 1)
	require.NotNil(t, snapshots["ZZZZ99"].Err)
}
