package amm

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/tondexlabs/swap-engine/internal/common"
)

var (
	u256BpsDenom = uint256.NewInt(common.BpsDenom)
)

var uint256Pool = sync.Pool{
	New: func() interface{} {
		return new(uint256.Int)
	},
}

func getU256() *uint256.Int {
	return uint256Pool.Get().(*uint256.Int)
}

func putU256(v *uint256.Int) {
	uint256Pool.Put(v)
}

// FastAmountOut is the zero-allocation constant-product path for amounts and
// reserves that fit in uint64. Products of two uint64 values stay well inside
// 256-bit range, so this mirrors GetAmountOut exactly. The second return is
// false when the inputs are unusable and the caller should treat the pool as
// illiquid.
func FastAmountOut(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (uint64, bool) {
	if amountIn == 0 || reserveIn == 0 || reserveOut == 0 {
		return 0, false
	}

	afterFee := getU256()
	denom := getU256()
	out := getU256()
	defer putU256(afterFee)
	defer putU256(denom)
	defer putU256(out)

	afterFee.SetUint64(uint64(common.BpsDenom - feeBps))
	afterFee.Mul(afterFee, out.SetUint64(amountIn))
	afterFee.Div(afterFee, u256BpsDenom)

	denom.SetUint64(reserveIn)
	denom.Add(denom, afterFee)

	out.SetUint64(reserveOut)
	out.Mul(out, afterFee)
	out.Div(out, denom)

	if !out.IsUint64() {
		return 0, false
	}
	return out.Uint64(), true
}

// FastPriceImpactBps mirrors PriceImpactBps for uint64 inputs.
func FastPriceImpactBps(amountIn, amountOut, reserveIn, reserveOut uint64, feeBps uint16) uint16 {
	if amountIn == 0 || reserveIn == 0 || reserveOut == 0 {
		return 0
	}

	afterFee := getU256()
	spot := getU256()
	exec := getU256()
	tmp := getU256()
	defer putU256(afterFee)
	defer putU256(spot)
	defer putU256(exec)
	defer putU256(tmp)

	afterFee.SetUint64(uint64(common.BpsDenom - feeBps))
	afterFee.Mul(afterFee, tmp.SetUint64(amountIn))
	afterFee.Div(afterFee, u256BpsDenom)
	if afterFee.IsZero() {
		return 0
	}

	spot.SetUint64(reserveOut)
	spot.Mul(spot, afterFee)

	exec.SetUint64(amountOut)
	exec.Mul(exec, tmp.SetUint64(reserveIn))

	if exec.Cmp(spot) >= 0 {
		return 0
	}

	tmp.Sub(spot, exec)
	tmp.Mul(tmp, u256BpsDenom)
	tmp.Div(tmp, spot)

	if !tmp.IsUint64() || tmp.Uint64() > common.MaxDisplayImpactBps {
		return common.MaxDisplayImpactBps
	}
	return uint16(tmp.Uint64())
}
