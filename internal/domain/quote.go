package domain

import (
	"math/big"
	"time"

	"github.com/xssnick/tonutils-go/address"
)

// Quote is an immutable, time-bounded swap quote. Lookup does not consume it;
// it is removed by the quote cache sweep after expiry or once the executor
// marks it consumed.
type Quote struct {
	ID             string
	Route          *Route
	Side           TradeSide
	AmountIn       *big.Int
	AmountOut      *big.Int
	AmountOutMin   *big.Int
	AmountInMax    *big.Int
	PriceImpactBps uint16
	GasEstimate    *big.Int
	SlippageBps    uint16
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// IsExpired is a pure function of wall-clock time. The executor re-checks it
// immediately before submission since discovery and submission are separated
// in time.
func (q *Quote) IsExpired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

type LiquidityOp uint8

const (
	LiquidityAdd LiquidityOp = iota
	LiquidityRemove
)

func (op LiquidityOp) String() string {
	if op == LiquidityRemove {
		return "Remove"
	}
	return "Add"
}

// LiquidityQuote is derived entirely from a snapshot and caller amounts.
// Stateless and never cached: liquidity ratios shift too quickly to amortize.
type LiquidityQuote struct {
	PoolAddress      *address.Address
	Operation        LiquidityOp
	Amount0          *big.Int
	Amount1          *big.Int
	LPTokenDelta     *big.Int
	PriceImpactBps   uint16
	PoolSharePercent float64
	FeeBps           uint16
}

// LiquidityPosition is a read-mostly projection of an on-chain LP balance
// against current reserves. Sourced from the chain, not owned by the engine.
type LiquidityPosition struct {
	Owner          *address.Address
	PoolAddress    *address.Address
	LPTokenBalance *big.Int
	ImpliedAmount0 *big.Int
	ImpliedAmount1 *big.Int
	SharePercent   float64
	UpdatedAt      time.Time
}

// TxHandle identifies a submitted transaction toward the external executor.
type TxHandle struct {
	Hash      string    `json:"hash"`
	QuoteID   string    `json:"quoteId"`
	Submitted time.Time `json:"submitted"`
}
