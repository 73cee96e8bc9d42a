package domain

import (
	"bytes"
	"errors"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

var ErrInvalidAsset = errors.New("invalid asset reference")

type AssetKind uint8

const (
	AssetNative AssetKind = iota
	AssetJetton
)

func (k AssetKind) String() string {
	switch k {
	case AssetNative:
		return "Native"
	case AssetJetton:
		return "Jetton"
	default:
		return "UNKNOWN"
	}
}

// Asset identifies either the chain's native currency or a jetton by its
// master contract address. The zero value is the native asset.
type Asset struct {
	Kind    AssetKind
	Address *address.Address
}

func NativeAsset() Asset {
	return Asset{Kind: AssetNative}
}

func JettonAsset(addr *address.Address) Asset {
	return Asset{Kind: AssetJetton, Address: addr}
}

// ParseAsset resolves a caller-supplied asset reference. "TON" and "native"
// (case-insensitive) map to the native asset, anything else must be a valid
// jetton master address.
func ParseAsset(s string) (Asset, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TON", "NATIVE":
		return NativeAsset(), nil
	}
	addr, err := address.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return Asset{}, ErrInvalidAsset
	}
	return JettonAsset(addr), nil
}

func (a Asset) IsNative() bool {
	return a.Kind == AssetNative
}

func (a Asset) String() string {
	if a.Kind == AssetNative {
		return "TON"
	}
	if a.Address == nil {
		return "jetton:?"
	}
	return a.Address.String()
}

func (a Asset) Equal(b Asset) bool {
	return a.Compare(b) == 0
}

// Compare defines the canonical total order used for pool identity: native
// sorts before any jetton, jettons order by workchain then raw address bytes.
func (a Asset) Compare(b Asset) int {
	if a.Kind != b.Kind {
		if a.Kind == AssetNative {
			return -1
		}
		return 1
	}
	if a.Kind == AssetNative {
		return 0
	}
	aw, bw := a.Address.Workchain(), b.Address.Workchain()
	if aw != bw {
		if aw < bw {
			return -1
		}
		return 1
	}
	return bytes.Compare(a.Address.Data(), b.Address.Data())
}

// SortAssets returns the pair in canonical (asset0, asset1) order, and whether
// the input order was swapped.
func SortAssets(a, b Asset) (Asset, Asset, bool) {
	if a.Compare(b) > 0 {
		return b, a, true
	}
	return a, b, false
}

// ToCell serializes the asset in the on-chain prefix format: native is a
// 4-bit zero tag, a jetton is tag 1 followed by workchain and the 256-bit
// account hash.
func (a Asset) ToCell() *cell.Cell {
	b := cell.BeginCell()
	if a.Kind == AssetNative {
		b.MustStoreUInt(0, 4)
		return b.EndCell()
	}
	b.MustStoreUInt(1, 4)
	b.MustStoreInt(int64(a.Address.Workchain()), 8)
	b.MustStoreSlice(a.Address.Data(), 256)
	return b.EndCell()
}
