package market

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/metrics"
)

// cacheEntry memoizes either a snapshot or the fact that the pool does not
// exist, so a missing pool does not hammer the provider on every quote.
type cacheEntry struct {
	snap     *domain.PoolSnapshot
	notFound bool
}

// Service is the pool state cache: short-TTL memoization of snapshot
// provider results keyed by the canonical (asset0, asset1, variant) triple.
// Provider failures are never cached.
type Service struct {
	provider     SnapshotProvider
	cache        *expirable.LRU[string, cacheEntry]
	fetchTimeout time.Duration
}

func NewService(provider SnapshotProvider, size int, ttl, fetchTimeout time.Duration) *Service {
	return &Service{
		provider:     provider,
		cache:        expirable.NewLRU[string, cacheEntry](size, nil, ttl),
		fetchTimeout: fetchTimeout,
	}
}

func cacheKey(a, b domain.Asset, variant domain.PoolVariant) string {
	a0, a1, _ := domain.SortAssets(a, b)
	return fmt.Sprintf("%s|%s|%d", a0, a1, variant)
}

// Snapshot returns cached pool state for the pair, refreshing from the
// provider on miss. The fetch is bounded by the configured timeout so a slow
// provider drops one route candidate instead of stalling the whole search.
func (s *Service) Snapshot(ctx context.Context, a, b domain.Asset, variant domain.PoolVariant) (*domain.PoolSnapshot, error) {
	key := cacheKey(a, b, variant)
	if entry, ok := s.cache.Get(key); ok {
		metrics.PoolCacheHits.Inc()
		if entry.notFound {
			return nil, common.ErrPoolNotFound
		}
		return entry.snap, nil
	}
	metrics.PoolCacheMisses.Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	snap, err := s.provider.GetPoolSnapshot(fetchCtx, a, b, variant)
	switch {
	case err == nil:
		s.cache.Add(key, cacheEntry{snap: snap})
		metrics.PoolCacheSize.Set(float64(s.cache.Len()))
		return snap, nil
	case errors.Is(err, common.ErrPoolNotFound):
		s.cache.Add(key, cacheEntry{notFound: true})
		return nil, common.ErrPoolNotFound
	default:
		// Transient failure: never poison the cache with it.
		log.Debug().Err(err).Str("pair", key).Msg("[market] snapshot fetch failed")
		return nil, err
	}
}

// LPBalance reads the owner's LP-token balance for a pool straight from the
// provider. Never cached: positions change out-of-band and a stale balance
// would misprice a withdrawal.
func (s *Service) LPBalance(ctx context.Context, owner, pool *address.Address) (*big.Int, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	return s.provider.GetLPBalance(fetchCtx, owner, pool)
}

// Invalidate drops the cached entry for a pair, forcing the next read to hit
// the provider. Used after an executed swap touches the pool.
func (s *Service) Invalidate(a, b domain.Asset, variant domain.PoolVariant) {
	s.cache.Remove(cacheKey(a, b, variant))
}

// Purge empties the cache.
func (s *Service) Purge() {
	s.cache.Purge()
}

func (s *Service) Len() int {
	return s.cache.Len()
}
