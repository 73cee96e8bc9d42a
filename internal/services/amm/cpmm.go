// Package amm implements the constant-product pricing formula over
// arbitrary-precision integers. Every function here is pure: same reserves,
// fee and amount always produce the same output.
package amm

import (
	"math/big"

	"github.com/tondexlabs/swap-engine/internal/common"
)

// GetAmountOut computes the output of swapping amountIn against reserves
// (reserveIn, reserveOut) with the pool fee in basis points. Integer division
// rounds the fee toward the pool. The result is strictly less than
// reserveOut: a pool cannot be fully drained.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, common.ErrInsufficientLiquidity
	}

	// Almost every real pool fits in uint64; take the allocation-free path
	// when it does.
	if amountIn.IsUint64() && reserveIn.IsUint64() && reserveOut.IsUint64() {
		if out, ok := FastAmountOut(amountIn.Uint64(), reserveIn.Uint64(), reserveOut.Uint64(), feeBps); ok {
			return new(big.Int).SetUint64(out), nil
		}
	}

	afterFee := GetBigInt()
	denom := GetBigInt()
	defer PutBigInt(afterFee)
	defer PutBigInt(denom)

	// afterFee = amountIn * (10000 - fee) / 10000
	afterFee.SetInt64(int64(common.BpsDenom - feeBps))
	afterFee.Mul(amountIn, afterFee)
	afterFee.Div(afterFee, bpsDenom)

	// out = afterFee * reserveOut / (reserveIn + afterFee)
	denom.Add(reserveIn, afterFee)
	out := new(big.Int).Mul(afterFee, reserveOut)
	out.Div(out, denom)
	return out, nil
}

// GetAmountIn is the inverse of GetAmountOut: the input required to receive
// amountOut. A request for amountOut >= reserveOut is rejected as
// insufficient liquidity rather than producing a negative or unbounded
// result. Rounds up so the computed input is always sufficient.
func GetAmountIn(amountOut, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, common.ErrInsufficientLiquidity
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, common.ErrInsufficientLiquidity
	}

	denom := GetBigInt()
	feeFactor := GetBigInt()
	defer PutBigInt(denom)
	defer PutBigInt(feeFactor)

	// in = amountOut * reserveIn * 10000 / ((reserveOut - amountOut) * (10000 - fee)) + 1
	in := new(big.Int).Mul(amountOut, reserveIn)
	in.Mul(in, bpsDenom)

	denom.Sub(reserveOut, amountOut)
	feeFactor.SetInt64(int64(common.BpsDenom - feeBps))
	denom.Mul(denom, feeFactor)

	in.Div(in, denom)
	in.Add(in, one)
	return in, nil
}

// PriceImpactBps measures the relative deviation between the pool's spot
// price (reserveOut/reserveIn) and the effective execution price, fee
// excluded, in basis points. Displayed impact is capped at
// MaxDisplayImpactBps; uninitialized pools (a zero reserve) report zero
// rather than dividing by zero.
func PriceImpactBps(amountIn, amountOut, reserveIn, reserveOut *big.Int, feeBps uint16) uint16 {
	if amountIn == nil || amountOut == nil || reserveIn == nil || reserveOut == nil {
		return 0
	}
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return 0
	}

	if amountIn.IsUint64() && amountOut.IsUint64() && reserveIn.IsUint64() && reserveOut.IsUint64() {
		return FastPriceImpactBps(amountIn.Uint64(), amountOut.Uint64(), reserveIn.Uint64(), reserveOut.Uint64(), feeBps)
	}

	afterFee := GetBigInt()
	spot := GetBigInt()
	exec := GetBigInt()
	diff := GetBigInt()
	defer PutBigInt(afterFee)
	defer PutBigInt(spot)
	defer PutBigInt(exec)
	defer PutBigInt(diff)

	// Fee is stripped from the input so impact reflects pure slippage.
	afterFee.SetInt64(int64(common.BpsDenom - feeBps))
	afterFee.Mul(amountIn, afterFee)
	afterFee.Div(afterFee, bpsDenom)
	if afterFee.Sign() <= 0 {
		return 0
	}

	// Compare spot = reserveOut/reserveIn against exec = amountOut/afterFee
	// without leaving the integers: cross-multiply both sides by
	// reserveIn*afterFee.
	spot.Mul(reserveOut, afterFee)
	exec.Mul(amountOut, reserveIn)

	if exec.Cmp(spot) >= 0 {
		return 0
	}

	diff.Sub(spot, exec)
	diff.Mul(diff, bpsDenom)
	diff.Div(diff, spot)

	if !diff.IsUint64() || diff.Uint64() > common.MaxDisplayImpactBps {
		return common.MaxDisplayImpactBps
	}
	return uint16(diff.Uint64())
}
