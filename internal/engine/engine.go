// Package engine exposes the external contract of the swap engine: quoting,
// execution handoff, liquidity quoting and pool reads, composed from the
// per-concern services. One Engine serves one network.
package engine

import (
	"context"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/metrics"
	"github.com/tondexlabs/swap-engine/internal/services/liquidity"
	"github.com/tondexlabs/swap-engine/internal/services/market"
	"github.com/tondexlabs/swap-engine/internal/services/quoter"
	"github.com/tondexlabs/swap-engine/internal/services/tokens"
)

// Submitter hands an accepted quote to the chain. Implemented by the dedust
// adapter; kept as an interface so quoting works without a funded wallet.
type Submitter interface {
	// SubmitSwap sends the quote on chain. A nil recipient delivers the
	// output to the submitting wallet.
	SubmitSwap(ctx context.Context, quote *domain.Quote, recipient *address.Address) (*domain.TxHandle, error)
}

type Engine struct {
	network   string
	market    *market.Service
	quoter    *quoter.Service
	liquidity *liquidity.Service
	registry  *tokens.Registry
	submitter Submitter
}

func New(network string, marketSvc *market.Service, quoterSvc *quoter.Service, liquiditySvc *liquidity.Service, registry *tokens.Registry, submitter Submitter) *Engine {
	return &Engine{
		network:   network,
		market:    marketSvc,
		quoter:    quoterSvc,
		liquidity: liquiditySvc,
		registry:  registry,
		submitter: submitter,
	}
}

func (e *Engine) Network() string {
	return e.network
}

// Tokens exposes the symbol registry for request resolution.
func (e *Engine) Tokens() *tokens.Registry {
	return e.registry
}

// QuoteSwap prices a trade and issues a cached, executable quote.
func (e *Engine) QuoteSwap(ctx context.Context, tokenIn, tokenOut domain.Asset, amount *big.Int, side domain.TradeSide, slippageBps uint16) (*domain.Quote, error) {
	return e.quoter.BuildQuote(ctx, tokenIn, tokenOut, amount, side, slippageBps)
}

// GetQuote looks up an issued quote without consuming it.
func (e *Engine) GetQuote(quoteID string) (*domain.Quote, error) {
	return e.quoter.GetQuote(quoteID)
}

// ExecuteQuote submits a previously issued quote. Expiry is re-checked here,
// not only at issue time: the gap between quoting and execution is where
// quotes go stale. A successfully submitted quote is consumed and the
// touched pools are invalidated so the next quote sees post-trade reserves.
func (e *Engine) ExecuteQuote(ctx context.Context, quoteID string, recipient *address.Address) (*domain.TxHandle, error) {
	quote, err := e.quoter.GetQuote(quoteID)
	if err != nil {
		metrics.ExecuteRequests.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if quote.IsExpired(time.Now()) {
		metrics.ExecuteRequests.WithLabelValues("expired").Inc()
		return nil, common.ErrQuoteExpired
	}
	if e.submitter == nil {
		metrics.ExecuteRequests.WithLabelValues("unavailable").Inc()
		return nil, common.ErrRoutingUnavailable
	}

	handle, err := e.submitter.SubmitSwap(ctx, quote, recipient)
	if err != nil {
		metrics.ExecuteRequests.WithLabelValues("failed").Inc()
		return nil, err
	}

	e.quoter.MarkConsumed(quoteID)
	for _, hop := range quote.Route.Hops() {
		e.market.Invalidate(hop.Pool.Asset0, hop.Pool.Asset1, hop.Pool.Variant)
	}

	metrics.ExecuteRequests.WithLabelValues("ok").Inc()
	log.Info().Str("quoteId", quoteID).Str("txHash", handle.Hash).Msg("[engine] quote executed")
	return handle, nil
}

// QuoteLiquidityAdd quotes a deposit into the pair's pool.
func (e *Engine) QuoteLiquidityAdd(ctx context.Context, req liquidity.AddRequest) (*domain.LiquidityQuote, error) {
	return e.liquidity.QuoteAdd(ctx, req)
}

// QuoteLiquidityRemove quotes a withdrawal from the pair's pool.
func (e *Engine) QuoteLiquidityRemove(ctx context.Context, req liquidity.RemoveRequest) (*domain.LiquidityQuote, error) {
	return e.liquidity.QuoteRemove(ctx, req)
}

// GetPoolInfo returns current pool state for the pair.
func (e *Engine) GetPoolInfo(ctx context.Context, a, b domain.Asset, variant domain.PoolVariant) (*domain.PoolSnapshot, error) {
	return e.market.Snapshot(ctx, a, b, variant)
}

// GetPosition projects the owner's liquidity position in the pair's pool.
func (e *Engine) GetPosition(ctx context.Context, owner *address.Address, a, b domain.Asset, variant domain.PoolVariant) (*domain.LiquidityPosition, error) {
	return e.liquidity.Position(ctx, owner, a, b, variant)
}

// Close releases background resources.
func (e *Engine) Close() {
	e.quoter.Close()
}
