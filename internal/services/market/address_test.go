package market

import (
	"testing"

	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/domain"
)

var (
	testFactory = address.MustParseAddr("EQBfBWT7X2BHg9tXAxzhz2aKiNTU1tpt5NsiK0uSDW_YAJ67")
	testUSDT    = address.MustParseAddr("EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs")
	testJUSDC   = address.MustParseAddr("EQB-MPwrd1G6WKNkLz_VnV6WqBDd142KMQv-g1O-8QUA3728")
)

func TestDerivePoolAddressOrderIndependent(t *testing.T) {
	ton := domain.NativeAsset()
	usdt := domain.JettonAsset(testUSDT)

	ab, err := DerivePoolAddress(testFactory, ton, usdt, domain.VariantVolatile)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	ba, err := DerivePoolAddress(testFactory, usdt, ton, domain.VariantVolatile)
	if err != nil {
		t.Fatalf("derive swapped: %v", err)
	}
	if ab.String() != ba.String() {
		t.Errorf("pair order changed the address: %s vs %s", ab, ba)
	}
}

func TestDerivePoolAddressDistinguishesVariant(t *testing.T) {
	ton := domain.NativeAsset()
	usdt := domain.JettonAsset(testUSDT)

	vol, err := DerivePoolAddress(testFactory, ton, usdt, domain.VariantVolatile)
	if err != nil {
		t.Fatalf("derive volatile: %v", err)
	}
	stable, err := DerivePoolAddress(testFactory, ton, usdt, domain.VariantStable)
	if err != nil {
		t.Fatalf("derive stable: %v", err)
	}
	if vol.String() == stable.String() {
		t.Error("volatile and stable pools must live at different addresses")
	}
}

func TestDerivePoolAddressDistinguishesPairs(t *testing.T) {
	ton := domain.NativeAsset()

	a, err := DerivePoolAddress(testFactory, ton, domain.JettonAsset(testUSDT), domain.VariantVolatile)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	b, err := DerivePoolAddress(testFactory, ton, domain.JettonAsset(testJUSDC), domain.VariantVolatile)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if a.String() == b.String() {
		t.Error("different pairs must derive different pool addresses")
	}
}

func TestDerivePoolAddressDeterministic(t *testing.T) {
	ton := domain.NativeAsset()
	usdt := domain.JettonAsset(testUSDT)

	first, err := DerivePoolAddress(testFactory, ton, usdt, domain.VariantVolatile)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	for i := 0; i < 16; i++ {
		again, err := DerivePoolAddress(testFactory, ton, usdt, domain.VariantVolatile)
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		if again.String() != first.String() {
			t.Fatalf("iteration %d: address drifted from %s to %s", i, first, again)
		}
	}
}

func TestDeriveVaultAddressPerAsset(t *testing.T) {
	native, err := DeriveVaultAddress(testFactory, domain.NativeAsset())
	if err != nil {
		t.Fatalf("derive native vault: %v", err)
	}
	jetton, err := DeriveVaultAddress(testFactory, domain.JettonAsset(testUSDT))
	if err != nil {
		t.Fatalf("derive jetton vault: %v", err)
	}
	if native.String() == jetton.String() {
		t.Error("vault address must depend on the asset")
	}
	if native.Workchain() != 0 {
		t.Errorf("vault workchain = %d, want 0", native.Workchain())
	}
}
