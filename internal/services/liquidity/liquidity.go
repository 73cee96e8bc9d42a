// Package liquidity quotes deposits into and withdrawals out of pools.
// Everything here is computed fresh from a pool snapshot per request;
// liquidity quotes are never cached because reserve ratios move with every
// trade.
package liquidity

import (
	"context"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/metrics"
	"github.com/tondexlabs/swap-engine/internal/services/amm"
	"github.com/tondexlabs/swap-engine/internal/services/market"

	"github.com/xssnick/tonutils-go/address"
)

type Service struct {
	market *market.Service
}

func NewService(marketSvc *market.Service) *Service {
	return &Service{market: marketSvc}
}

// AddRequest carries the caller's desired deposit, keyed by the pair in the
// caller's order. Minima are floors on the matched amounts: a deposit that
// cannot satisfy them is rejected, never silently reduced further.
type AddRequest struct {
	AssetA, AssetB     domain.Asset
	Variant            domain.PoolVariant
	DesiredA, DesiredB *big.Int
	MinA, MinB         *big.Int
}

// QuoteAdd computes the matched deposit for the pool, preserving the reserve
// ratio. The side whose desired amount is proportionally smaller binds; the
// other side is scaled down to match. An empty pool accepts the desired
// amounts as given and seeds the LP supply with their geometric mean.
func (s *Service) QuoteAdd(ctx context.Context, req AddRequest) (*domain.LiquidityQuote, error) {
	snap, err := s.market.Snapshot(ctx, req.AssetA, req.AssetB, req.Variant)
	if err != nil {
		metrics.LiquidityQuoteRequests.WithLabelValues("add", "error").Inc()
		return nil, err
	}

	// Orient the caller's amounts to the pool's canonical asset order.
	desired0, desired1 := req.DesiredA, req.DesiredB
	min0, min1 := req.MinA, req.MinB
	if _, _, swapped := domain.SortAssets(req.AssetA, req.AssetB); swapped {
		desired0, desired1 = desired1, desired0
		min0, min1 = min1, min0
	}

	var amount0, amount1, minted *big.Int
	if snap.LPTotalSupply == nil || snap.LPTotalSupply.Sign() == 0 {
		if desired0 == nil || desired1 == nil || desired0.Sign() <= 0 || desired1.Sign() <= 0 {
			metrics.LiquidityQuoteRequests.WithLabelValues("add", "invalid").Inc()
			return nil, common.ErrInvalidAmount
		}
		amount0, amount1 = desired0, desired1
		minted, err = amm.LPTokensForInitialDeposit(amount0, amount1)
	} else {
		amount0, amount1, err = amm.MatchedDepositAmounts(desired0, desired1, snap.Reserve0, snap.Reserve1)
		if err == nil {
			minted, err = amm.LPTokensForDeposit(amount0, amount1, snap.Reserve0, snap.Reserve1, snap.LPTotalSupply)
		}
	}
	if err != nil {
		metrics.LiquidityQuoteRequests.WithLabelValues("add", "invalid").Inc()
		return nil, err
	}

	if belowFloor(amount0, min0) || belowFloor(amount1, min1) {
		metrics.LiquidityQuoteRequests.WithLabelValues("add", "below_min").Inc()
		return nil, common.ErrBelowMinimum
	}

	supplyAfter := new(big.Int).Set(minted)
	if snap.LPTotalSupply != nil {
		supplyAfter.Add(supplyAfter, snap.LPTotalSupply)
	}

	metrics.LiquidityQuoteRequests.WithLabelValues("add", "ok").Inc()
	return &domain.LiquidityQuote{
		PoolAddress:      snap.Address,
		Operation:        domain.LiquidityAdd,
		Amount0:          amount0,
		Amount1:          amount1,
		LPTokenDelta:     minted,
		PriceImpactBps:   amm.DepositImpactBps(desired0, desired1, snap.Reserve0, snap.Reserve1),
		PoolSharePercent: amm.PoolSharePercent(minted, supplyAfter),
		FeeBps:           snap.FeeBps,
	}, nil
}

// RemoveRequest burns either an explicit LP amount or a percentage of the
// owner's position (1..100); exactly one of the two should be set.
type RemoveRequest struct {
	AssetA, AssetB domain.Asset
	Variant        domain.PoolVariant
	LPAmount       *big.Int
	Percent        uint8
	Owner          *address.Address
	Min0, Min1     *big.Int
}

// QuoteRemove computes the proportional withdrawal for burning LP tokens.
// Burning more than the total supply is insufficient liquidity, and floors
// are checked after the proportional split, never clamped into compliance.
func (s *Service) QuoteRemove(ctx context.Context, req RemoveRequest) (*domain.LiquidityQuote, error) {
	snap, err := s.market.Snapshot(ctx, req.AssetA, req.AssetB, req.Variant)
	if err != nil {
		metrics.LiquidityQuoteRequests.WithLabelValues("remove", "error").Inc()
		return nil, err
	}

	lpAmount := req.LPAmount
	if lpAmount == nil {
		lpAmount, err = s.resolvePercent(ctx, req, snap)
		if err != nil {
			metrics.LiquidityQuoteRequests.WithLabelValues("remove", "error").Inc()
			return nil, err
		}
	}

	out0, out1, err := amm.WithdrawalAmounts(lpAmount, snap.LPTotalSupply, snap.Reserve0, snap.Reserve1)
	if err != nil {
		metrics.LiquidityQuoteRequests.WithLabelValues("remove", "invalid").Inc()
		return nil, err
	}

	if belowFloor(out0, req.Min0) || belowFloor(out1, req.Min1) {
		metrics.LiquidityQuoteRequests.WithLabelValues("remove", "below_min").Inc()
		return nil, common.ErrBelowMinimum
	}

	metrics.LiquidityQuoteRequests.WithLabelValues("remove", "ok").Inc()
	return &domain.LiquidityQuote{
		PoolAddress:  snap.Address,
		Operation:    domain.LiquidityRemove,
		Amount0:      out0,
		Amount1:      out1,
		LPTokenDelta: lpAmount,
		// A proportional withdrawal does not move the price.
		PriceImpactBps:   0,
		PoolSharePercent: amm.PoolSharePercent(lpAmount, snap.LPTotalSupply),
		FeeBps:           snap.FeeBps,
	}, nil
}

// Position projects the owner's on-chain LP balance against current reserves.
func (s *Service) Position(ctx context.Context, owner *address.Address, a, b domain.Asset, variant domain.PoolVariant) (*domain.LiquidityPosition, error) {
	snap, err := s.market.Snapshot(ctx, a, b, variant)
	if err != nil {
		return nil, err
	}
	balance, err := s.market.LPBalance(ctx, owner, snap.Address)
	if err != nil {
		log.Debug().Err(err).Str("owner", owner.String()).Msg("[liquidity] lp balance fetch failed")
		return nil, err
	}

	pos := &domain.LiquidityPosition{
		Owner:          owner,
		PoolAddress:    snap.Address,
		LPTokenBalance: balance,
		ImpliedAmount0: big.NewInt(0),
		ImpliedAmount1: big.NewInt(0),
		SharePercent:   amm.PoolSharePercent(balance, snap.LPTotalSupply),
		UpdatedAt:      time.Now(),
	}
	if balance.Sign() > 0 {
		implied0, implied1, err := amm.WithdrawalAmounts(balance, snap.LPTotalSupply, snap.Reserve0, snap.Reserve1)
		if err != nil {
			return nil, err
		}
		pos.ImpliedAmount0, pos.ImpliedAmount1 = implied0, implied1
	}
	return pos, nil
}

func (s *Service) resolvePercent(ctx context.Context, req RemoveRequest, snap *domain.PoolSnapshot) (*big.Int, error) {
	if req.Percent == 0 || req.Percent > 100 || req.Owner == nil {
		return nil, common.ErrInvalidAmount
	}
	balance, err := s.market.LPBalance(ctx, req.Owner, snap.Address)
	if err != nil {
		return nil, err
	}
	if balance.Sign() <= 0 {
		return nil, common.ErrInsufficientLiquidity
	}
	lp := new(big.Int).Mul(balance, big.NewInt(int64(req.Percent)))
	lp.Div(lp, big.NewInt(100))
	return lp, nil
}

func belowFloor(amount, floor *big.Int) bool {
	return floor != nil && floor.Sign() > 0 && amount.Cmp(floor) < 0
}
