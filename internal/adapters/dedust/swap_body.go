package dedust

import (
	"math/big"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tondexlabs/swap-engine/internal/domain"
)

// Contract op codes.
const (
	opSwapNative     = 0xea06185d
	opSwapJetton     = 0xe3a0d482
	opDepositNative  = 0xd55e4686
	opDepositJetton  = 0x40e108d6
	opBurn           = 0x595f07bc
	opJettonTransfer = 0x0f8a7ea5
)

// SwapParams are trader-facing execution constraints carried in the payload.
type SwapParams struct {
	Deadline  time.Time
	Recipient *address.Address
	Referral  *address.Address
}

func (sp SwapParams) toCell() *cell.Cell {
	b := cell.BeginCell().
		MustStoreUInt(uint64(sp.Deadline.Unix()), 32).
		MustStoreAddr(sp.Recipient).
		MustStoreAddr(sp.Referral).
		MustStoreBoolBit(false). // fulfill payload
		MustStoreBoolBit(false)  // reject payload
	return b.EndCell()
}

// swapSteps encodes the route's pool chain as nested swap steps. Each step
// carries its own minimum-out limit; only the terminal hop enforces the
// quote's amountOutMin, intermediate hops pass everything through.
func swapSteps(route *domain.Route, amountOutMin *big.Int) *cell.Cell {
	hops := route.Hops()
	var next *cell.Cell
	for i := len(hops) - 1; i >= 0; i-- {
		limit := big.NewInt(0)
		if i == len(hops)-1 && amountOutMin != nil {
			limit = amountOutMin
		}
		b := cell.BeginCell().
			MustStoreAddr(hops[i].Pool.Address).
			MustStoreUInt(0, 1). // given-in swap kind
			MustStoreBigCoins(limit)
		if next != nil {
			b.MustStoreMaybeRef(next)
		} else {
			b.MustStoreBoolBit(false)
		}
		next = b.EndCell()
	}
	return next
}

// BuildNativeSwapBody builds the message body sent to the native vault when
// the route's input asset is TON.
func BuildNativeSwapBody(queryID uint64, quote *domain.Quote, recipient *address.Address) *cell.Cell {
	steps := swapSteps(quote.Route, quote.AmountOutMin)
	return cell.BeginCell().
		MustStoreUInt(opSwapNative, 32).
		MustStoreUInt(queryID, 64).
		MustStoreBigCoins(quote.AmountIn).
		MustStoreBuilder(steps.ToBuilder()).
		MustStoreRef(swapParamsRef(quote, recipient)).
		EndCell()
}

// BuildJettonSwapBody builds the jetton transfer toward the jetton vault
// with the swap instruction as forward payload.
func BuildJettonSwapBody(queryID uint64, quote *domain.Quote, recipient, vault, responseTo *address.Address, forwardTON *big.Int) *cell.Cell {
	payload := cell.BeginCell().
		MustStoreUInt(opSwapJetton, 32).
		MustStoreRef(swapSteps(quote.Route, quote.AmountOutMin)).
		MustStoreRef(swapParamsRef(quote, recipient)).
		EndCell()

	return cell.BeginCell().
		MustStoreUInt(opJettonTransfer, 32).
		MustStoreUInt(queryID, 64).
		MustStoreBigCoins(quote.AmountIn).
		MustStoreAddr(vault).
		MustStoreAddr(responseTo).
		MustStoreBoolBit(false). // no custom payload
		MustStoreBigCoins(forwardTON).
		MustStoreMaybeRef(payload).
		EndCell()
}

func swapParamsRef(quote *domain.Quote, recipient *address.Address) *cell.Cell {
	return SwapParams{
		Deadline:  quote.ExpiresAt,
		Recipient: recipient, // nil delivers to sender
		Referral:  nil,
	}.toCell()
}

// BuildNativeDepositBody builds the native vault deposit message for adding
// liquidity with the TON side of the pair.
func BuildNativeDepositBody(queryID uint64, amount *big.Int, variant domain.PoolVariant, asset0, asset1 domain.Asset, target0, target1 *big.Int) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(opDepositNative, 32).
		MustStoreUInt(queryID, 64).
		MustStoreBigCoins(amount).
		MustStoreRef(poolParams(variant, asset0, asset1)).
		MustStoreBigCoins(target0).
		MustStoreBigCoins(target1).
		EndCell()
}

// BuildJettonDepositBody builds the jetton transfer toward the jetton vault
// carrying the deposit instruction as forward payload.
func BuildJettonDepositBody(queryID uint64, amount *big.Int, vault, responseTo *address.Address, forwardTON *big.Int, variant domain.PoolVariant, asset0, asset1 domain.Asset, target0, target1 *big.Int) *cell.Cell {
	payload := cell.BeginCell().
		MustStoreUInt(opDepositJetton, 32).
		MustStoreRef(poolParams(variant, asset0, asset1)).
		MustStoreBigCoins(target0).
		MustStoreBigCoins(target1).
		EndCell()

	return cell.BeginCell().
		MustStoreUInt(opJettonTransfer, 32).
		MustStoreUInt(queryID, 64).
		MustStoreBigCoins(amount).
		MustStoreAddr(vault).
		MustStoreAddr(responseTo).
		MustStoreBoolBit(false).
		MustStoreBigCoins(forwardTON).
		MustStoreMaybeRef(payload).
		EndCell()
}

func poolParams(variant domain.PoolVariant, asset0, asset1 domain.Asset) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(uint64(variant), 1).
		MustStoreRef(asset0.ToCell()).
		MustStoreRef(asset1.ToCell()).
		EndCell()
}

// BuildBurnBody builds the LP-jetton burn that triggers a withdrawal.
func BuildBurnBody(queryID uint64, lpAmount *big.Int, responseTo *address.Address) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(opBurn, 32).
		MustStoreUInt(queryID, 64).
		MustStoreBigCoins(lpAmount).
		MustStoreAddr(responseTo).
		MustStoreBoolBit(false).
		EndCell()
}
