package router

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/services/market"
)

var (
	tonAsset  = domain.NativeAsset()
	usdtAsset = domain.JettonAsset(address.MustParseAddr("EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"))
	scamAsset = domain.JettonAsset(address.MustParseAddr("EQB-MPwrd1G6WKNkLz_VnV6WqBDd142KMQv-g1O-8QUA3728"))
	poolAddr  = address.MustParseAddr("EQBfBWT7X2BHg9tXAxzhz2aKiNTU1tpt5NsiK0uSDW_YAJ67")
)

type fakeProvider struct {
	pools map[string]*domain.PoolSnapshot
	errs  map[string]error
}

func pairKey(a, b domain.Asset, variant domain.PoolVariant) string {
	a0, a1, _ := domain.SortAssets(a, b)
	return fmt.Sprintf("%s|%s|%d", a0, a1, variant)
}

func (p *fakeProvider) GetPoolSnapshot(_ context.Context, a, b domain.Asset, variant domain.PoolVariant) (*domain.PoolSnapshot, error) {
	key := pairKey(a, b, variant)
	if err, ok := p.errs[key]; ok {
		return nil, err
	}
	if snap, ok := p.pools[key]; ok {
		return snap, nil
	}
	return nil, common.ErrPoolNotFound
}

func (p *fakeProvider) GetLPBalance(context.Context, *address.Address, *address.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func pool(a, b domain.Asset, reserveA, reserveB int64, feeBps uint16, variant domain.PoolVariant) *domain.PoolSnapshot {
	a0, a1, swapped := domain.SortAssets(a, b)
	r0, r1 := big.NewInt(reserveA), big.NewInt(reserveB)
	if swapped {
		r0, r1 = r1, r0
	}
	return &domain.PoolSnapshot{
		Address:       poolAddr,
		Asset0:        a0,
		Asset1:        a1,
		Reserve0:      r0,
		Reserve1:      r1,
		FeeBps:        feeBps,
		LPTotalSupply: big.NewInt(1_000_000),
		Variant:       variant,
		FetchedAt:     time.Now(),
	}
}

func newFinder(provider *fakeProvider, bridges ...domain.Asset) *Finder {
	svc := market.NewService(provider, 64, time.Minute, time.Second)
	if bridges == nil {
		bridges = []domain.Asset{tonAsset, usdtAsset}
	}
	return NewFinder(svc, bridges, 2)
}

func TestFindRoutesDirectSell(t *testing.T) {
	provider := &fakeProvider{pools: map[string]*domain.PoolSnapshot{
		pairKey(tonAsset, usdtAsset, domain.VariantVolatile): pool(tonAsset, usdtAsset, 10_000, 25_000, 30, domain.VariantVolatile),
	}}
	finder := newFinder(provider)

	routes, err := finder.FindRoutes(context.Background(), tonAsset, usdtAsset, big.NewInt(1000), domain.SideSell)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(routes))
	}
	best := routes[0]
	if best.HopCount() != 1 {
		t.Errorf("hops = %d, want 1", best.HopCount())
	}
	if got := best.AmountOut().Int64(); got != 2266 {
		t.Errorf("amountOut = %d, want 2266", got)
	}
	if !best.TokenIn().Equal(tonAsset) || !best.TokenOut().Equal(usdtAsset) {
		t.Errorf("route endpoints %s -> %s", best.TokenIn(), best.TokenOut())
	}
}

func TestFindRoutesRanksVariantsByOutput(t *testing.T) {
	// The stable pool is deeper, so it produces more output and must rank
	// first.
	provider := &fakeProvider{pools: map[string]*domain.PoolSnapshot{
		pairKey(tonAsset, usdtAsset, domain.VariantVolatile): pool(tonAsset, usdtAsset, 10_000, 25_000, 30, domain.VariantVolatile),
		pairKey(tonAsset, usdtAsset, domain.VariantStable):   pool(tonAsset, usdtAsset, 1_000_000, 2_500_000, 10, domain.VariantStable),
	}}
	finder := newFinder(provider)

	routes, err := finder.FindRoutes(context.Background(), tonAsset, usdtAsset, big.NewInt(1000), domain.SideSell)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(routes))
	}
	if routes[0].Hops()[0].Pool.Variant != domain.VariantStable {
		t.Error("deeper stable pool should rank first on output")
	}
	if routes[0].AmountOut().Cmp(routes[1].AmountOut()) <= 0 {
		t.Error("ranking is not descending by amountOut")
	}
}

func TestFindRoutesBridgeFallback(t *testing.T) {
	// No direct scam/usdt pool; the only path is scam -> TON -> usdt.
	provider := &fakeProvider{pools: map[string]*domain.PoolSnapshot{
		pairKey(scamAsset, tonAsset, domain.VariantVolatile): pool(scamAsset, tonAsset, 50_000, 50_000, 30, domain.VariantVolatile),
		pairKey(tonAsset, usdtAsset, domain.VariantVolatile): pool(tonAsset, usdtAsset, 10_000, 25_000, 30, domain.VariantVolatile),
	}}
	finder := newFinder(provider)

	routes, err := finder.FindRoutes(context.Background(), scamAsset, usdtAsset, big.NewInt(1000), domain.SideSell)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(routes))
	}
	best := routes[0]
	if best.HopCount() != 2 {
		t.Fatalf("hops = %d, want 2", best.HopCount())
	}
	path := best.Path()
	if !path[1].Equal(tonAsset) {
		t.Errorf("bridge asset = %s, want TON", path[1])
	}
	hops := best.Hops()
	if hops[0].AmountOut.Cmp(hops[1].AmountIn) != 0 {
		t.Error("hop amounts do not chain")
	}
	if best.AmountOut().Sign() <= 0 {
		t.Error("bridge route produced no output")
	}
}

func TestFindRoutesBuySide(t *testing.T) {
	provider := &fakeProvider{pools: map[string]*domain.PoolSnapshot{
		pairKey(tonAsset, usdtAsset, domain.VariantVolatile): pool(tonAsset, usdtAsset, 10_000, 25_000, 30, domain.VariantVolatile),
	}}
	finder := newFinder(provider)

	want := big.NewInt(2266)
	routes, err := finder.FindRoutes(context.Background(), tonAsset, usdtAsset, want, domain.SideBuy)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	best := routes[0]
	if best.AmountOut().Cmp(want) != 0 {
		t.Errorf("amountOut = %s, want %s (exact output)", best.AmountOut(), want)
	}
	// The inverse formula rounds up, so the computed input must buy at
	// least the requested output when replayed forward.
	if best.AmountIn().Int64() < 1000 {
		t.Errorf("amountIn = %s, implausibly small for 2266 out", best.AmountIn())
	}
}

func TestFindRoutesBuyExceedingReserves(t *testing.T) {
	provider := &fakeProvider{pools: map[string]*domain.PoolSnapshot{
		pairKey(tonAsset, usdtAsset, domain.VariantVolatile): pool(tonAsset, usdtAsset, 10_000, 25_000, 30, domain.VariantVolatile),
	}}
	finder := newFinder(provider)

	_, err := finder.FindRoutes(context.Background(), tonAsset, usdtAsset, big.NewInt(25_000), domain.SideBuy)
	if !errors.Is(err, common.ErrNoRouteFound) {
		t.Errorf("err = %v, want ErrNoRouteFound (cannot buy the whole reserve)", err)
	}
}

func TestFindRoutesNoRoute(t *testing.T) {
	finder := newFinder(&fakeProvider{})

	_, err := finder.FindRoutes(context.Background(), scamAsset, usdtAsset, big.NewInt(1000), domain.SideSell)
	if !errors.Is(err, common.ErrNoRouteFound) {
		t.Errorf("err = %v, want ErrNoRouteFound", err)
	}
}

func TestFindRoutesProviderFailureIsUnavailable(t *testing.T) {
	provider := &fakeProvider{errs: map[string]error{
		pairKey(scamAsset, usdtAsset, domain.VariantVolatile): errors.New("liteserver timeout"),
		pairKey(scamAsset, usdtAsset, domain.VariantStable):   errors.New("liteserver timeout"),
		pairKey(scamAsset, tonAsset, domain.VariantVolatile):  errors.New("liteserver timeout"),
		pairKey(scamAsset, tonAsset, domain.VariantStable):    errors.New("liteserver timeout"),
	}}
	finder := newFinder(provider)

	_, err := finder.FindRoutes(context.Background(), scamAsset, usdtAsset, big.NewInt(1000), domain.SideSell)
	if !errors.Is(err, common.ErrRoutingUnavailable) {
		t.Errorf("err = %v, want ErrRoutingUnavailable", err)
	}
}

func TestFindRoutesSameAsset(t *testing.T) {
	finder := newFinder(&fakeProvider{})

	_, err := finder.FindRoutes(context.Background(), tonAsset, tonAsset, big.NewInt(1000), domain.SideSell)
	if !errors.Is(err, common.ErrNoRouteFound) {
		t.Errorf("err = %v, want ErrNoRouteFound", err)
	}
}

func TestFindRoutesDirectBeatsWorseBridge(t *testing.T) {
	// Direct pool and a bridge path both exist; the bridge pays two fees
	// through shallower pools, so the direct route must rank first.
	provider := &fakeProvider{pools: map[string]*domain.PoolSnapshot{
		pairKey(scamAsset, usdtAsset, domain.VariantVolatile): pool(scamAsset, usdtAsset, 1_000_000, 1_000_000, 30, domain.VariantVolatile),
		pairKey(scamAsset, tonAsset, domain.VariantVolatile):  pool(scamAsset, tonAsset, 1_000_000, 1_000_000, 30, domain.VariantVolatile),
		pairKey(tonAsset, usdtAsset, domain.VariantVolatile):  pool(tonAsset, usdtAsset, 1_000_000, 1_000_000, 30, domain.VariantVolatile),
	}}
	finder := newFinder(provider)

	routes, err := finder.FindRoutes(context.Background(), scamAsset, usdtAsset, big.NewInt(10_000), domain.SideSell)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2 (direct and bridge)", len(routes))
	}
	if routes[0].HopCount() != 1 {
		t.Error("direct route should outrank the double-fee bridge route")
	}
}

func TestRoutePriceImpactBps(t *testing.T) {
	snap := pool(tonAsset, usdtAsset, 10_000, 25_000, 30, domain.VariantVolatile)
	route := simulate(tonAsset, usdtAsset, big.NewInt(1000), domain.SideSell, snap)
	if route == nil {
		t.Fatal("simulate returned nil")
	}
	impact := RoutePriceImpactBps(route)
	if impact == 0 {
		t.Error("a 10% trade against the pool must report nonzero impact")
	}
	if impact > common.MaxDisplayImpactBps {
		t.Errorf("impact %d exceeds display cap", impact)
	}
}
