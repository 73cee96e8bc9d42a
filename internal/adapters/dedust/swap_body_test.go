package dedust

import (
	"math/big"
	"testing"
	"time"

	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/domain"
)

var (
	testPool   = address.MustParseAddr("EQBfBWT7X2BHg9tXAxzhz2aKiNTU1tpt5NsiK0uSDW_YAJ67")
	testOwner  = address.MustParseAddr("EQB-MPwrd1G6WKNkLz_VnV6WqBDd142KMQv-g1O-8QUA3728")
	testJetton = address.MustParseAddr("EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs")
)

func testQuote(t *testing.T) *domain.Quote {
	t.Helper()
	snap := &domain.PoolSnapshot{
		Address:  testPool,
		Asset0:   domain.NativeAsset(),
		Asset1:   domain.JettonAsset(testJetton),
		Reserve0: big.NewInt(10_000),
		Reserve1: big.NewInt(25_000),
		FeeBps:   30,
		Variant:  domain.VariantVolatile,
	}
	route, err := domain.NewRoute([]domain.Hop{{
		Pool:      snap,
		TokenIn:   domain.NativeAsset(),
		TokenOut:  domain.JettonAsset(testJetton),
		AmountIn:  big.NewInt(1000),
		AmountOut: big.NewInt(2266),
	}})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	return &domain.Quote{
		ID:           "test",
		Route:        route,
		AmountIn:     big.NewInt(1000),
		AmountOut:    big.NewInt(2266),
		AmountOutMin: big.NewInt(2243),
		GasEstimate:  big.NewInt(300_000_000),
		ExpiresAt:    time.Now().Add(time.Minute),
	}
}

func TestBuildNativeSwapBody(t *testing.T) {
	body := BuildNativeSwapBody(42, testQuote(t), nil)

	s := body.BeginParse()
	if op := s.MustLoadUInt(32); op != opSwapNative {
		t.Errorf("op = %#x, want %#x", op, uint64(opSwapNative))
	}
	if qid := s.MustLoadUInt(64); qid != 42 {
		t.Errorf("queryID = %d, want 42", qid)
	}
	if amount := s.MustLoadBigCoins(); amount.Int64() != 1000 {
		t.Errorf("amount = %s, want 1000", amount)
	}
	// First swap step follows inline: pool address, kind, limit.
	if poolAddr := s.MustLoadAddr(); poolAddr.String() != testPool.String() {
		t.Errorf("step pool = %s, want %s", poolAddr, testPool)
	}
	if kind := s.MustLoadUInt(1); kind != 0 {
		t.Errorf("swap kind = %d, want 0 (given-in)", kind)
	}
	if limit := s.MustLoadBigCoins(); limit.Int64() != 2243 {
		t.Errorf("terminal limit = %s, want amountOutMin 2243", limit)
	}
}

func TestBuildJettonSwapBody(t *testing.T) {
	vault := testPool
	body := BuildJettonSwapBody(7, testQuote(t), nil, vault, testOwner, big.NewInt(150_000_000))

	s := body.BeginParse()
	if op := s.MustLoadUInt(32); op != opJettonTransfer {
		t.Errorf("op = %#x, want jetton transfer", op)
	}
	s.MustLoadUInt(64) // query id
	if amount := s.MustLoadBigCoins(); amount.Int64() != 1000 {
		t.Errorf("transfer amount = %s, want 1000", amount)
	}
	if dst := s.MustLoadAddr(); dst.String() != vault.String() {
		t.Errorf("destination = %s, want vault %s", dst, vault)
	}
}

func TestSwapStepsChainTerminalLimit(t *testing.T) {
	// A two-hop route: only the last step carries the min-out limit.
	first := &domain.PoolSnapshot{
		Address:  testPool,
		Asset0:   domain.NativeAsset(),
		Asset1:   domain.JettonAsset(testJetton),
		Reserve0: big.NewInt(1), Reserve1: big.NewInt(1),
		Variant: domain.VariantVolatile,
	}
	second := &domain.PoolSnapshot{
		Address:  testOwner,
		Asset0:   domain.JettonAsset(testJetton),
		Asset1:   domain.JettonAsset(testOwner),
		Reserve0: big.NewInt(1), Reserve1: big.NewInt(1),
		Variant: domain.VariantVolatile,
	}
	route, err := domain.NewRoute([]domain.Hop{
		{Pool: first, TokenIn: domain.NativeAsset(), TokenOut: domain.JettonAsset(testJetton), AmountIn: big.NewInt(10), AmountOut: big.NewInt(9)},
		{Pool: second, TokenIn: domain.JettonAsset(testJetton), TokenOut: domain.JettonAsset(testOwner), AmountIn: big.NewInt(9), AmountOut: big.NewInt(8)},
	})
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	steps := swapSteps(route, big.NewInt(8))
	s := steps.BeginParse()
	s.MustLoadAddr()
	s.MustLoadUInt(1)
	if limit := s.MustLoadBigCoins(); limit.Sign() != 0 {
		t.Errorf("intermediate hop limit = %s, want 0", limit)
	}
	next := s.MustLoadMaybeRef()
	if next == nil {
		t.Fatal("missing chained step")
	}
	next.MustLoadAddr()
	next.MustLoadUInt(1)
	if limit := next.MustLoadBigCoins(); limit.Int64() != 8 {
		t.Errorf("terminal limit = %s, want 8", limit)
	}
}

func TestBuildBurnBody(t *testing.T) {
	body := BuildBurnBody(3, big.NewInt(500_000), testOwner)

	s := body.BeginParse()
	if op := s.MustLoadUInt(32); op != opBurn {
		t.Errorf("op = %#x, want burn", op)
	}
	s.MustLoadUInt(64)
	if amount := s.MustLoadBigCoins(); amount.Int64() != 500_000 {
		t.Errorf("burn amount = %s, want 500000", amount)
	}
}
