package domain

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/xssnick/tonutils-go/address"
)

var (
	tonAsset  = NativeAsset()
	usdtAsset = JettonAsset(address.MustParseAddr("EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"))
	jusdAsset = JettonAsset(address.MustParseAddr("EQB-MPwrd1G6WKNkLz_VnV6WqBDd142KMQv-g1O-8QUA3728"))
	poolAddr  = address.MustParseAddr("EQBfBWT7X2BHg9tXAxzhz2aKiNTU1tpt5NsiK0uSDW_YAJ67")
)

func hop(in, out Asset, amountIn, amountOut int64) Hop {
	a0, a1, _ := SortAssets(in, out)
	return Hop{
		Pool: &PoolSnapshot{
			Address:       poolAddr,
			Asset0:        a0,
			Asset1:        a1,
			Reserve0:      big.NewInt(1_000_000),
			Reserve1:      big.NewInt(2_500_000),
			FeeBps:        30,
			LPTotalSupply: big.NewInt(1_000_000),
			Variant:       VariantVolatile,
			FetchedAt:     time.Now(),
		},
		TokenIn:   in,
		TokenOut:  out,
		AmountIn:  big.NewInt(amountIn),
		AmountOut: big.NewInt(amountOut),
	}
}

func TestNewRouteRejectsNonChainingHops(t *testing.T) {
	// Second hop enters on jUSDC but the first hop exits on USDT.
	hops := []Hop{
		hop(tonAsset, usdtAsset, 1000, 2266),
		hop(jusdAsset, tonAsset, 2266, 980),
	}
	if _, err := NewRoute(hops); !errors.Is(err, ErrBrokenRoute) {
		t.Fatalf("NewRoute(non-chaining) err = %v, want ErrBrokenRoute", err)
	}
}

func TestNewRouteRejectsEmptyHops(t *testing.T) {
	if _, err := NewRoute(nil); !errors.Is(err, ErrBrokenRoute) {
		t.Fatalf("NewRoute(nil) err = %v, want ErrBrokenRoute", err)
	}
	if _, err := NewRoute([]Hop{}); !errors.Is(err, ErrBrokenRoute) {
		t.Fatalf("NewRoute(empty) err = %v, want ErrBrokenRoute", err)
	}
}

func TestNewRouteChainedEndpoints(t *testing.T) {
	route, err := NewRoute([]Hop{
		hop(tonAsset, usdtAsset, 1000, 2266),
		hop(usdtAsset, jusdAsset, 2266, 2250),
	})
	if err != nil {
		t.Fatalf("NewRoute: %v", err)
	}
	if !route.TokenIn().Equal(tonAsset) {
		t.Errorf("TokenIn = %s, want native", route.TokenIn())
	}
	if !route.TokenOut().Equal(jusdAsset) {
		t.Errorf("TokenOut = %s, want jUSDC", route.TokenOut())
	}
	if route.AmountIn().Int64() != 1000 || route.AmountOut().Int64() != 2250 {
		t.Errorf("amounts = %s/%s, want 1000/2250", route.AmountIn(), route.AmountOut())
	}
	if route.TotalFeeBps() != 60 {
		t.Errorf("TotalFeeBps = %d, want 60", route.TotalFeeBps())
	}
	path := route.Path()
	if len(path) != 3 || !path[1].Equal(usdtAsset) {
		t.Errorf("Path = %v, want [native USDT jUSDC]", path)
	}
}

func TestQuoteIsExpiredBoundary(t *testing.T) {
	deadline := time.Now()
	q := &Quote{ExpiresAt: deadline}

	if q.IsExpired(deadline.Add(-time.Millisecond)) {
		t.Error("expired before the deadline")
	}
	if q.IsExpired(deadline) {
		t.Error("expired exactly at the deadline")
	}
	if !q.IsExpired(deadline.Add(time.Millisecond)) {
		t.Error("not expired after the deadline")
	}
}
