// Package quoter turns routed trades into executable, time-bounded quotes:
// slippage bounds, gas estimate, identity, expiry, and the cache that holds
// them until execution or collection.
package quoter

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/metrics"
	"github.com/tondexlabs/swap-engine/internal/services/amm"
	"github.com/tondexlabs/swap-engine/internal/services/router"
)

type Service struct {
	finder      *router.Finder
	cache       *Cache
	quoteTTL    time.Duration
	gasEstimate *big.Int
}

func NewService(finder *router.Finder, quoteTTL, sweepInterval time.Duration, gasEstimate int64) *Service {
	return &Service{
		finder:      finder,
		cache:       NewCache(sweepInterval),
		quoteTTL:    quoteTTL,
		gasEstimate: big.NewInt(gasEstimate),
	}
}

// BuildQuote finds the best route for the trade and wraps it in a quote with
// slippage bounds applied. Validation happens before any pool state is
// touched; a request that can be rejected statically never costs an RPC.
func (s *Service) BuildQuote(ctx context.Context, tokenIn, tokenOut domain.Asset, amount *big.Int, side domain.TradeSide, slippageBps uint16) (*domain.Quote, error) {
	start := time.Now()
	if amount == nil || amount.Sign() <= 0 {
		metrics.QuoteRequests.WithLabelValues(side.String(), "invalid").Inc()
		return nil, common.ErrInvalidAmount
	}
	if slippageBps > common.MaxSlippageBps {
		metrics.QuoteRequests.WithLabelValues(side.String(), "invalid").Inc()
		return nil, common.ErrInvalidSlippage
	}

	routes, err := s.finder.FindRoutes(ctx, tokenIn, tokenOut, amount, side)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(side.String(), "no_route").Inc()
		return nil, err
	}
	best := routes[0]

	now := time.Now()
	impact := router.RoutePriceImpactBps(best)
	quote := &domain.Quote{
		ID:             newQuoteID(now),
		Route:          best,
		Side:           side,
		AmountIn:       best.AmountIn(),
		AmountOut:      best.AmountOut(),
		AmountOutMin:   amountOutMin(best.AmountOut(), slippageBps),
		PriceImpactBps: impact,
		GasEstimate:    new(big.Int).Set(s.gasEstimate),
		SlippageBps:    slippageBps,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.quoteTTL),
	}
	if side == domain.SideBuy {
		quote.AmountInMax = amountInMax(best.AmountIn(), slippageBps)
	}

	s.cache.Put(quote)

	metrics.QuoteRequests.WithLabelValues(side.String(), "ok").Inc()
	metrics.QuoteDuration.WithLabelValues(side.String()).Observe(time.Since(start).Seconds())
	metrics.PriceImpact.WithLabelValues(string(amm.GetPriceImpactSeverity(impact))).Observe(float64(impact))

	log.Debug().
		Str("quoteId", quote.ID).
		Str("side", side.String()).
		Int("hops", best.HopCount()).
		Str("amountIn", quote.AmountIn.String()).
		Str("amountOut", quote.AmountOut.String()).
		Uint16("priceImpactBps", impact).
		Msg("[quoter] quote issued")
	return quote, nil
}

// GetQuote returns a previously issued quote by ID without consuming it.
// An expired but not yet swept quote is returned alongside ErrQuoteExpired so
// the caller can distinguish "too late" from "never existed".
func (s *Service) GetQuote(id string) (*domain.Quote, error) {
	q, ok := s.cache.Get(id)
	if !ok {
		return nil, common.ErrQuoteNotFound
	}
	if q.IsExpired(time.Now()) {
		return q, common.ErrQuoteExpired
	}
	return q, nil
}

// MarkConsumed removes a quote after execution so it cannot be replayed.
func (s *Service) MarkConsumed(id string) {
	s.cache.Remove(id)
}

// CacheLen reports the number of live cache entries.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// Close stops the cache sweep.
func (s *Service) Close() {
	s.cache.Close()
}

// newQuoteID embeds issue time in the ID prefix so operators can eyeball a
// quote's age straight from logs.
func newQuoteID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString())
}

// amountOutMin applies slippage tolerance to the quoted output:
// out * (10000 - slippage) / 10000, rounded down so the bound is conservative
// for the pool, never the trader.
func amountOutMin(amountOut *big.Int, slippageBps uint16) *big.Int {
	min := new(big.Int).SetInt64(int64(common.BpsDenom - slippageBps))
	min.Mul(min, amountOut)
	min.Div(min, big.NewInt(common.BpsDenom))
	return min
}

// amountInMax is the exact-output counterpart: in * 10000 / (10000 - slippage).
// Dividing the numerator rather than multiplying by (10000 + slippage) keeps
// the bound symmetric with amountOutMin.
func amountInMax(amountIn *big.Int, slippageBps uint16) *big.Int {
	max := new(big.Int).SetInt64(common.BpsDenom)
	max.Mul(max, amountIn)
	max.Div(max, big.NewInt(int64(common.BpsDenom-slippageBps)))
	return max
}
