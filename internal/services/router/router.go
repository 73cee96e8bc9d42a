// Package router discovers swap routes between asset pairs: direct pools
// first, then two-hop paths through configured bridge assets, every
// candidate simulated against live pool state and ranked by execution price.
package router

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/metrics"
	"github.com/tondexlabs/swap-engine/internal/services/amm"
	"github.com/tondexlabs/swap-engine/internal/services/market"
)

// maxSearchDepth bounds the path length regardless of configuration: routes
// longer than two hops never price competitively on this pool topology.
const maxSearchDepth = 2

var poolVariants = [...]domain.PoolVariant{domain.VariantVolatile, domain.VariantStable}

type Finder struct {
	market  *market.Service
	bridges []domain.Asset
	maxHops int
}

func NewFinder(marketSvc *market.Service, bridges []domain.Asset, maxHops int) *Finder {
	if maxHops < 1 {
		maxHops = 1
	}
	if maxHops > maxSearchDepth {
		maxHops = maxSearchDepth
	}
	return &Finder{
		market:  marketSvc,
		bridges: bridges,
		maxHops: maxHops,
	}
}

// FindRoutes returns every viable route between tokenIn and tokenOut for the
// given trade, ranked best-first. For SELL the amount is the exact input and
// candidates rank by output descending; for BUY it is the exact output and
// candidates rank by required input ascending. Ties prefer fewer hops, then
// lower aggregate fee.
//
// Outcome classification matters to callers: an empty result where every
// pool lookup answered "no such pool" is ErrNoRouteFound, while an empty
// result with at least one provider failure is ErrRoutingUnavailable, since
// a viable route may exist behind the failing lookup.
func (f *Finder) FindRoutes(ctx context.Context, tokenIn, tokenOut domain.Asset, amount *big.Int, side domain.TradeSide) ([]*domain.Route, error) {
	if tokenIn.Equal(tokenOut) {
		return nil, common.ErrNoRouteFound
	}
	start := time.Now()

	var (
		candidates []*domain.Route
		failures   int
	)

	// Direct pools, both variants.
	for _, variant := range poolVariants {
		snap, err := f.market.Snapshot(ctx, tokenIn, tokenOut, variant)
		switch {
		case err == nil:
			if route := simulate(tokenIn, tokenOut, amount, side, snap); route != nil {
				candidates = append(candidates, route)
			}
		case errors.Is(err, common.ErrPoolNotFound):
			// Expected: not every pair has both variants.
		default:
			failures++
			metrics.ProviderFailures.WithLabelValues("direct").Inc()
		}
	}

	if f.maxHops >= 2 {
		routes, bridgeFailures := f.bridgeRoutes(ctx, tokenIn, tokenOut, amount, side)
		candidates = append(candidates, routes...)
		failures += bridgeFailures
	}

	metrics.RouteSearchDuration.Observe(time.Since(start).Seconds())
	metrics.RouteCandidates.Observe(float64(len(candidates)))

	if len(candidates) == 0 {
		if failures > 0 {
			return nil, common.ErrRoutingUnavailable
		}
		return nil, common.ErrNoRouteFound
	}

	rankRoutes(candidates, side)
	return candidates, nil
}

type legResult struct {
	snap    *domain.PoolSnapshot
	failure bool
}

// bridgeRoutes evaluates two-hop candidates through each configured bridge
// asset. The two legs of each candidate are fetched concurrently; a leg that
// fails or has no pool drops the candidate, never the whole search.
func (f *Finder) bridgeRoutes(ctx context.Context, tokenIn, tokenOut domain.Asset, amount *big.Int, side domain.TradeSide) ([]*domain.Route, int) {
	var (
		routes   []*domain.Route
		failures int
	)

	for _, bridge := range f.bridges {
		if bridge.Equal(tokenIn) || bridge.Equal(tokenOut) {
			continue
		}

		var (
			wg   sync.WaitGroup
			legs [2]legResult
		)
		pairs := [2][2]domain.Asset{{tokenIn, bridge}, {bridge, tokenOut}}
		for i := range pairs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				legs[i] = f.fetchLeg(ctx, pairs[i][0], pairs[i][1])
			}(i)
		}
		wg.Wait()

		if legs[0].failure || legs[1].failure {
			failures++
			metrics.ProviderFailures.WithLabelValues("bridge").Inc()
			continue
		}
		if legs[0].snap == nil || legs[1].snap == nil {
			continue
		}

		if route := simulate(tokenIn, tokenOut, amount, side, legs[0].snap, legs[1].snap); route != nil {
			routes = append(routes, route)
		}
	}
	return routes, failures
}

// fetchLeg resolves the best available pool for one leg of a bridge route,
// trying the volatile variant before the stable one.
func (f *Finder) fetchLeg(ctx context.Context, a, b domain.Asset) legResult {
	for _, variant := range poolVariants {
		snap, err := f.market.Snapshot(ctx, a, b, variant)
		switch {
		case err == nil:
			if snap.HasLiquidity() {
				return legResult{snap: snap}
			}
		case errors.Is(err, common.ErrPoolNotFound):
			continue
		default:
			return legResult{failure: true}
		}
	}
	return legResult{}
}

// simulate prices the trade through the pool chain from tokenIn to tokenOut
// and assembles a route. Returns nil when any hop cannot be priced (drained
// pool, requested output exceeding a reserve), which silently drops the
// candidate.
func simulate(tokenIn, tokenOut domain.Asset, amount *big.Int, side domain.TradeSide, snaps ...*domain.PoolSnapshot) *domain.Route {
	hops := make([]domain.Hop, len(snaps))

	if side == domain.SideSell {
		hopIn := tokenIn
		amountIn := amount
		for i, snap := range snaps {
			hopOut, ok := snap.Other(hopIn)
			if !ok || !snap.HasLiquidity() {
				return nil
			}
			reserveIn, reserveOut, _ := snap.ReservesFor(hopIn)
			amountOut, err := amm.GetAmountOut(amountIn, reserveIn, reserveOut, snap.FeeBps)
			if err != nil || amountOut.Sign() <= 0 {
				return nil
			}
			hops[i] = domain.Hop{
				Pool:      snap,
				TokenIn:   hopIn,
				TokenOut:  hopOut,
				AmountIn:  amountIn,
				AmountOut: amountOut,
			}
			hopIn = hopOut
			amountIn = amountOut
		}
		if !hopIn.Equal(tokenOut) {
			return nil
		}
	} else {
		// Exact output: walk the chain backwards with the inverse formula.
		hopOut := tokenOut
		amountOut := amount
		for i := len(snaps) - 1; i >= 0; i-- {
			snap := snaps[i]
			hopIn, ok := snap.Other(hopOut)
			if !ok || !snap.HasLiquidity() {
				return nil
			}
			reserveIn, reserveOut, _ := snap.ReservesFor(hopIn)
			amountIn, err := amm.GetAmountIn(amountOut, reserveIn, reserveOut, snap.FeeBps)
			if err != nil {
				return nil
			}
			hops[i] = domain.Hop{
				Pool:      snap,
				TokenIn:   hopIn,
				TokenOut:  hopOut,
				AmountIn:  amountIn,
				AmountOut: amountOut,
			}
			hopOut = hopIn
			amountOut = amountIn
		}
		if !hopOut.Equal(tokenIn) {
			return nil
		}
	}

	route, err := domain.NewRoute(hops)
	if err != nil {
		log.Error().Err(err).Msg("[router] simulated hops do not chain")
		return nil
	}
	return route
}

// RoutePriceImpactBps aggregates per-hop price impact across the route,
// capped at the display ceiling.
func RoutePriceImpactBps(route *domain.Route) uint16 {
	var total uint32
	for _, h := range route.Hops() {
		reserveIn, reserveOut, ok := h.Pool.ReservesFor(h.TokenIn)
		if !ok {
			continue
		}
		total += uint32(amm.PriceImpactBps(h.AmountIn, h.AmountOut, reserveIn, reserveOut, h.Pool.FeeBps))
	}
	if total > common.MaxDisplayImpactBps {
		return common.MaxDisplayImpactBps
	}
	return uint16(total)
}

func rankRoutes(routes []*domain.Route, side domain.TradeSide) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		var cmp int
		if side == domain.SideSell {
			cmp = b.AmountOut().Cmp(a.AmountOut())
		} else {
			cmp = a.AmountIn().Cmp(b.AmountIn())
		}
		if cmp != 0 {
			return cmp < 0
		}
		if a.HopCount() != b.HopCount() {
			return a.HopCount() < b.HopCount()
		}
		return a.TotalFeeBps() < b.TotalFeeBps()
	})
}
