// Package common contains common constants and variables used across services
package common

const (
	// BpsDenom is the basis-point denominator used for all fee and slippage
	// arithmetic. No floating point anywhere in the pricing path.
	BpsDenom = 10000

	// MaxSlippageBps caps caller slippage tolerance at 50%.
	MaxSlippageBps = 5000

	// MaxDisplayImpactBps caps reported price impact at 10% so pathological
	// inputs (amount far exceeding reserves) don't produce nonsense figures.
	MaxDisplayImpactBps = 1000
)

// DefaultBridgeAssets are the intermediates tried for two-hop routing when no
// bridge set is configured: the native asset plus the major mainnet stables.
// The bridge set is configuration, this list is only the fallback.
var DefaultBridgeAssets = []string{
	"TON",
	"EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs", // USDT
	"EQB-MPwrd1G6WKNkLz_VnV6WqBDd142KMQv-g1O-8QUA3728", // jUSDC
}
