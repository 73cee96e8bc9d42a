// Package dedust reads pool state from and submits orders to DeDust
// contracts over liteserver connections. It is the only package that talks
// to the chain; everything above it works on snapshots.
package dedust

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/metrics"
	"github.com/tondexlabs/swap-engine/internal/services/market"
)

// Provider implements market.SnapshotProvider against DeDust pool contracts.
// All liteserver calls run through a circuit breaker: when the endpoint
// degrades, callers fail fast and the pool cache keeps serving what it has.
type Provider struct {
	api     ton.APIClientWrapped
	factory *address.Address
	breaker *gobreaker.CircuitBreaker[*ton.ExecutionResult]
}

var _ market.SnapshotProvider = (*Provider)(nil)

// Connect dials the liteserver set described by the global config URL and
// returns a shared API client. The provider and the submitter both ride the
// same connection pool.
func Connect(ctx context.Context, configURL string) (ton.APIClientWrapped, error) {
	pool := liteclient.NewConnectionPool()
	cfg, err := liteclient.GetConfigFromUrl(ctx, configURL)
	if err != nil {
		return nil, fmt.Errorf("fetch liteserver config: %w", err)
	}
	if err := pool.AddConnectionsFromConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("connect liteservers: %w", err)
	}
	return ton.NewAPIClient(pool, ton.ProofCheckPolicyFast).WithRetry(), nil
}

func NewProvider(api ton.APIClientWrapped, factory *address.Address) *Provider {
	return &Provider{
		api:     api,
		factory: factory,
		breaker: newBreaker(),
	}
}

func newBreaker() *gobreaker.CircuitBreaker[*ton.ExecutionResult] {
	return gobreaker.NewCircuitBreaker[*ton.ExecutionResult](gobreaker.Settings{
		Name:        "dedust-liteserver",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[dedust] circuit breaker state change")
		},
	})
}

// GetPoolSnapshot derives the pool address for the pair and reads reserves,
// trade fee and LP supply in one logical pass pinned to a single masterchain
// block, so the snapshot is internally consistent.
func (p *Provider) GetPoolSnapshot(ctx context.Context, a, b domain.Asset, variant domain.PoolVariant) (*domain.PoolSnapshot, error) {
	poolAddr, err := market.DerivePoolAddress(p.factory, a, b, variant)
	if err != nil {
		return nil, err
	}

	block, err := p.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("masterchain").Inc()
		return nil, fmt.Errorf("masterchain info: %w", err)
	}

	acc, err := p.api.GetAccount(ctx, block, poolAddr)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("account").Inc()
		return nil, fmt.Errorf("pool account: %w", err)
	}
	if !acc.IsActive {
		return nil, common.ErrPoolNotFound
	}

	reserves, err := p.run(ctx, block, poolAddr, "get_reserves")
	if err != nil {
		return nil, err
	}
	reserve0, err := reserves.Int(0)
	if err != nil {
		return nil, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := reserves.Int(1)
	if err != nil {
		return nil, fmt.Errorf("reserve1: %w", err)
	}

	fee, err := p.run(ctx, block, poolAddr, "get_trade_fee")
	if err != nil {
		return nil, err
	}
	feeNum, err := fee.Int(0)
	if err != nil {
		return nil, fmt.Errorf("fee numerator: %w", err)
	}
	feeDenom, err := fee.Int(1)
	if err != nil {
		return nil, fmt.Errorf("fee denominator: %w", err)
	}

	supply, err := p.run(ctx, block, poolAddr, "get_jetton_data")
	if err != nil {
		return nil, err
	}
	lpSupply, err := supply.Int(0)
	if err != nil {
		return nil, fmt.Errorf("lp supply: %w", err)
	}

	asset0, asset1, _ := domain.SortAssets(a, b)
	return &domain.PoolSnapshot{
		Address:       poolAddr,
		Asset0:        asset0,
		Asset1:        asset1,
		Reserve0:      reserve0,
		Reserve1:      reserve1,
		FeeBps:        normalizeFeeBps(feeNum, feeDenom),
		LPTotalSupply: lpSupply,
		Variant:       variant,
		FetchedAt:     time.Now(),
	}, nil
}

// GetLPBalance resolves the owner's LP jetton wallet from the pool (the pool
// contract is the LP jetton master) and reads its balance. An undeployed
// wallet means the owner simply holds nothing.
func (p *Provider) GetLPBalance(ctx context.Context, owner, pool *address.Address) (*big.Int, error) {
	block, err := p.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("masterchain").Inc()
		return nil, fmt.Errorf("masterchain info: %w", err)
	}

	res, err := p.run(ctx, block, pool, "get_wallet_address",
		cell.BeginCell().MustStoreAddr(owner).EndCell().BeginParse())
	if err != nil {
		return nil, err
	}
	walletSlice, err := res.Slice(0)
	if err != nil {
		return nil, fmt.Errorf("wallet address result: %w", err)
	}
	walletAddr, err := walletSlice.LoadAddr()
	if err != nil {
		return nil, fmt.Errorf("wallet address: %w", err)
	}

	acc, err := p.api.GetAccount(ctx, block, walletAddr)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("account").Inc()
		return nil, fmt.Errorf("lp wallet account: %w", err)
	}
	if !acc.IsActive {
		return big.NewInt(0), nil
	}

	data, err := p.run(ctx, block, walletAddr, "get_wallet_data")
	if err != nil {
		return nil, err
	}
	balance, err := data.Int(0)
	if err != nil {
		return nil, fmt.Errorf("lp balance: %w", err)
	}
	return balance, nil
}

// run executes a get-method through the circuit breaker, translating the
// "contract not deployed" class of execution errors into ErrPoolNotFound.
func (p *Provider) run(ctx context.Context, block *ton.BlockIDExt, addr *address.Address, method string, params ...any) (*ton.ExecutionResult, error) {
	res, err := p.breaker.Execute(func() (*ton.ExecutionResult, error) {
		return p.api.RunGetMethod(ctx, block, addr, method, params...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ProviderFailures.WithLabelValues("breaker_open").Inc()
			return nil, fmt.Errorf("liteserver circuit open: %w", err)
		}
		var execErr ton.ContractExecError
		if errors.As(err, &execErr) {
			// The contract exists but rejected the call, or does not exist
			// at all. Either way there is no usable pool here.
			return nil, common.ErrPoolNotFound
		}
		metrics.ProviderFailures.WithLabelValues("get_method").Inc()
		return nil, fmt.Errorf("run %s on %s: %w", method, addr, err)
	}
	return res, nil
}

// normalizeFeeBps converts the contract's fee fraction into basis points.
func normalizeFeeBps(num, denom *big.Int) uint16 {
	if num == nil || denom == nil || denom.Sign() <= 0 {
		return 0
	}
	bps := new(big.Int).Mul(num, big.NewInt(common.BpsDenom))
	bps.Div(bps, denom)
	if !bps.IsUint64() || bps.Uint64() > common.BpsDenom {
		return 0
	}
	return uint16(bps.Uint64())
}
