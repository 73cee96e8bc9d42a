package amm

import (
	"math/big"
	"sync"
)

var (
	bpsDenom = big.NewInt(10000)
	one      = big.NewInt(1)
)

// bigIntPool reuses big.Int allocations in the pricing hot path.
var bigIntPool = sync.Pool{
	New: func() interface{} {
		return new(big.Int)
	},
}

// GetBigInt gets a zeroed big.Int from the pool
func GetBigInt() *big.Int {
	v := bigIntPool.Get().(*big.Int)
	return v.SetInt64(0)
}

// PutBigInt returns a big.Int to the pool
func PutBigInt(v *big.Int) {
	bigIntPool.Put(v)
}
