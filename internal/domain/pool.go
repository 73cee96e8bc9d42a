package domain

import (
	"math/big"
	"time"

	"github.com/xssnick/tonutils-go/address"
)

type PoolVariant uint8

const (
	VariantVolatile PoolVariant = iota
	VariantStable
)

func (v PoolVariant) String() string {
	switch v {
	case VariantVolatile:
		return "Volatile"
	case VariantStable:
		return "Stable"
	default:
		return "UNKNOWN"
	}
}

// ParsePoolVariant maps the wire form ("volatile"/"stable") to a variant.
func ParsePoolVariant(s string) (PoolVariant, bool) {
	switch s {
	case "", "volatile", "Volatile":
		return VariantVolatile, true
	case "stable", "Stable":
		return VariantStable, true
	default:
		return 0, false
	}
}

// PoolSnapshot is a point-in-time read of a pool's on-chain state. Snapshots
// are values: re-fetched rather than mutated, and a cache entry is discarded
// once its TTL elapses.
type PoolSnapshot struct {
	Address       *address.Address `json:"address"`
	Asset0        Asset            `json:"asset0"`
	Asset1        Asset            `json:"asset1"`
	Reserve0      *big.Int         `json:"reserve0"`
	Reserve1      *big.Int         `json:"reserve1"`
	FeeBps        uint16           `json:"feeBps"`
	LPTotalSupply *big.Int         `json:"lpTotalSupply"`
	Variant       PoolVariant      `json:"variant"`
	FetchedAt     time.Time        `json:"fetchedAt"`
}

// ReservesFor orients the snapshot's reserves for a swap of tokenIn. The
// third return is false when tokenIn is not part of the pool.
func (p *PoolSnapshot) ReservesFor(tokenIn Asset) (reserveIn, reserveOut *big.Int, ok bool) {
	switch {
	case tokenIn.Equal(p.Asset0):
		return p.Reserve0, p.Reserve1, true
	case tokenIn.Equal(p.Asset1):
		return p.Reserve1, p.Reserve0, true
	default:
		return nil, nil, false
	}
}

// Other returns the counterpart asset of tokenIn within the pool.
func (p *PoolSnapshot) Other(tokenIn Asset) (Asset, bool) {
	switch {
	case tokenIn.Equal(p.Asset0):
		return p.Asset1, true
	case tokenIn.Equal(p.Asset1):
		return p.Asset0, true
	default:
		return Asset{}, false
	}
}

// HasLiquidity reports whether both sides hold a positive reserve.
func (p *PoolSnapshot) HasLiquidity() bool {
	return p.Reserve0 != nil && p.Reserve1 != nil &&
		p.Reserve0.Sign() > 0 && p.Reserve1.Sign() > 0
}
