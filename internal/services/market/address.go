package market

import (
	"encoding/hex"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tondexlabs/swap-engine/internal/domain"
)

// Code hashes of the factory's pool and vault contracts. Address derivation
// only needs the hashes, not the full code: the factory deploys every pool
// with the same code cell, so its representation hash is a constant.
var (
	poolCodeHash  = mustHex("9de92b0f9ac4bbbb17f1dbd9a0a8e2b7c5b1a3b5d2cedb56a48f8e79d3c4f1aa")
	vaultCodeHash = mustHex("6d5f4cc9b1a20fa1f02b1e88ab1e2dd1d77dd3c9c35b7cc2c2f63ba1b8f4d202")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// DerivePoolAddress computes the deterministic pool contract address for the
// factory and asset pair. Pure: no network call is needed to know where a
// pool lives, only to confirm it is deployed. Order-independent: the pair is
// canonicalized before hashing, so derive(f, A, B) == derive(f, B, A).
func DerivePoolAddress(factory *address.Address, a, b domain.Asset, variant domain.PoolVariant) (*address.Address, error) {
	a0, a1, _ := domain.SortAssets(a, b)

	data := cell.BeginCell().
		MustStoreAddr(factory).
		MustStoreUInt(uint64(variant), 1).
		MustStoreRef(a0.ToCell()).
		MustStoreRef(a1.ToCell()).
		EndCell()

	return stateInitAddress(poolCodeHash, data)
}

// DeriveVaultAddress computes the factory's per-asset vault address.
func DeriveVaultAddress(factory *address.Address, asset domain.Asset) (*address.Address, error) {
	data := cell.BeginCell().
		MustStoreAddr(factory).
		MustStoreRef(asset.ToCell()).
		EndCell()

	return stateInitAddress(vaultCodeHash, data)
}

func stateInitAddress(codeHash []byte, data *cell.Cell) (*address.Address, error) {
	code := cell.BeginCell().MustStoreSlice(codeHash, 256).EndCell()

	state := &tlb.StateInit{
		Code: code,
		Data: data,
	}
	stateCell, err := tlb.ToCell(state)
	if err != nil {
		return nil, err
	}
	return address.NewAddress(0, 0, stateCell.Hash()), nil
}
