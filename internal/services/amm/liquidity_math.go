package amm

import (
	"math/big"

	"github.com/tondexlabs/swap-engine/internal/common"
)

// MatchedDepositAmounts computes the largest deposit that preserves the
// pool's reserve ratio without exceeding either desired amount. The limiting
// side binds; the engine never uses disproportionate caller amounts as-is
// because that would donate value to the pool.
func MatchedDepositAmounts(desired0, desired1, reserve0, reserve1 *big.Int) (*big.Int, *big.Int, error) {
	if desired0 == nil || desired1 == nil || desired0.Sign() <= 0 || desired1.Sign() <= 0 {
		return nil, nil, common.ErrInvalidAmount
	}
	if reserve0 == nil || reserve1 == nil || reserve0.Sign() <= 0 || reserve1.Sign() <= 0 {
		return nil, nil, common.ErrInsufficientLiquidity
	}

	// optimal1 = desired0 * reserve1 / reserve0
	optimal1 := new(big.Int).Mul(desired0, reserve1)
	optimal1.Div(optimal1, reserve0)

	if optimal1.Cmp(desired1) <= 0 {
		return new(big.Int).Set(desired0), optimal1, nil
	}

	// desired1 is the limiting side
	optimal0 := new(big.Int).Mul(desired1, reserve0)
	optimal0.Div(optimal0, reserve1)
	return optimal0, new(big.Int).Set(desired1), nil
}

// LPTokensForDeposit returns the LP tokens minted for depositing (amount0,
// amount1) against a live pool: proportional to the smaller of the two
// contribution ratios.
func LPTokensForDeposit(amount0, amount1, reserve0, reserve1, totalSupply *big.Int) (*big.Int, error) {
	if totalSupply == nil || totalSupply.Sign() == 0 {
		return LPTokensForInitialDeposit(amount0, amount1)
	}
	if reserve0 == nil || reserve1 == nil || reserve0.Sign() <= 0 || reserve1.Sign() <= 0 {
		return nil, common.ErrInsufficientLiquidity
	}

	minted0 := new(big.Int).Mul(amount0, totalSupply)
	minted0.Div(minted0, reserve0)

	minted1 := new(big.Int).Mul(amount1, totalSupply)
	minted1.Div(minted1, reserve1)

	if minted0.Cmp(minted1) < 0 {
		return minted0, nil
	}
	return minted1, nil
}

// LPTokensForInitialDeposit handles the first deposit into an empty pool:
// no ratio exists yet to preserve, so LP supply is the integer square root of
// the product of the two amounts.
func LPTokensForInitialDeposit(amount0, amount1 *big.Int) (*big.Int, error) {
	if amount0 == nil || amount1 == nil || amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	product := new(big.Int).Mul(amount0, amount1)
	return product.Sqrt(product), nil
}

// WithdrawalAmounts computes the proportional base/quote amounts released for
// burning lpAmount: reserve * lpAmount / totalSupply per side.
func WithdrawalAmounts(lpAmount, totalSupply, reserve0, reserve1 *big.Int) (*big.Int, *big.Int, error) {
	if lpAmount == nil || lpAmount.Sign() <= 0 {
		return nil, nil, common.ErrInvalidAmount
	}
	if totalSupply == nil || totalSupply.Sign() <= 0 || lpAmount.Cmp(totalSupply) > 0 {
		return nil, nil, common.ErrInsufficientLiquidity
	}

	out0 := new(big.Int).Mul(reserve0, lpAmount)
	out0.Div(out0, totalSupply)

	out1 := new(big.Int).Mul(reserve1, lpAmount)
	out1.Div(out1, totalSupply)
	return out0, out1, nil
}

// DepositImpactBps measures how far the deposit ratio deviates from the
// current reserve ratio, in basis points. A ratio-matched deposit reports
// (near) zero. Capped like swap impact.
func DepositImpactBps(amount0, amount1, reserve0, reserve1 *big.Int) uint16 {
	if amount0 == nil || amount1 == nil || amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		return 0
	}
	if reserve0 == nil || reserve1 == nil || reserve0.Sign() <= 0 || reserve1.Sign() <= 0 {
		return 0
	}

	lhs := GetBigInt()
	rhs := GetBigInt()
	diff := GetBigInt()
	defer PutBigInt(lhs)
	defer PutBigInt(rhs)
	defer PutBigInt(diff)

	// Compare amount1/amount0 against reserve1/reserve0 by cross-multiplying.
	lhs.Mul(amount1, reserve0)
	rhs.Mul(amount0, reserve1)

	if lhs.Cmp(rhs) >= 0 {
		diff.Sub(lhs, rhs)
	} else {
		diff.Sub(rhs, lhs)
	}
	if rhs.Sign() == 0 {
		return 0
	}
	diff.Mul(diff, bpsDenom)
	diff.Div(diff, rhs)

	if !diff.IsUint64() || diff.Uint64() > common.MaxDisplayImpactBps {
		return common.MaxDisplayImpactBps
	}
	return uint16(diff.Uint64())
}

// PoolSharePercent is the percentage of the (projected) total supply that
// lpAmount represents. Display-only, so floating point is acceptable here.
func PoolSharePercent(lpAmount, totalSupply *big.Int) float64 {
	if lpAmount == nil || totalSupply == nil || totalSupply.Sign() <= 0 {
		return 0
	}
	lp := new(big.Float).SetInt(lpAmount)
	supply := new(big.Float).SetInt(totalSupply)
	share, _ := new(big.Float).Quo(lp, supply).Float64()
	return share * 100
}
