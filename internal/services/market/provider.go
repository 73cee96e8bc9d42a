// Package market serves pool state to the routing engine: a snapshot
// provider abstraction over the chain plus a short-TTL cache bounding RPC
// cost under bursty quoting traffic.
package market

import (
	"context"
	"math/big"

	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/domain"
)

// SnapshotProvider reads live pool state from the chain. Implementations
// return common.ErrPoolNotFound when no pool exists for the pair/variant and
// a provider error for transport failures; the two must stay distinguishable.
type SnapshotProvider interface {
	GetPoolSnapshot(ctx context.Context, a, b domain.Asset, variant domain.PoolVariant) (*domain.PoolSnapshot, error)

	// GetLPBalance reads owner's LP-token wallet balance for a pool.
	GetLPBalance(ctx context.Context, owner, pool *address.Address) (*big.Int, error)
}
