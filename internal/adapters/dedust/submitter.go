package dedust

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/services/market"
)

// Submitter sends accepted quotes to the chain from the engine's configured
// wallet. It only submits; confirmation tracking is the caller's problem
// since a swap's on-chain settlement outlives any sensible request timeout.
type Submitter struct {
	api     ton.APIClientWrapped
	wallet  *wallet.Wallet
	factory *address.Address
}

func NewSubmitter(api ton.APIClientWrapped, seed []string, factory *address.Address) (*Submitter, error) {
	w, err := wallet.FromSeed(api, seed, wallet.V4R2)
	if err != nil {
		return nil, fmt.Errorf("wallet from seed: %w", err)
	}
	log.Info().Str("wallet", w.WalletAddress().String()).Msg("[dedust] submitter wallet ready")
	return &Submitter{api: api, wallet: w, factory: factory}, nil
}

// Address is the wallet the submitter sends from.
func (s *Submitter) Address() *address.Address {
	return s.wallet.WalletAddress()
}

// SubmitSwap sends the quoted swap. Native input goes straight to the native
// vault with the swap body; jetton input goes through the sender's jetton
// wallet as a transfer to the jetton vault.
func (s *Submitter) SubmitSwap(ctx context.Context, quote *domain.Quote, recipient *address.Address) (*domain.TxHandle, error) {
	tokenIn := quote.Route.TokenIn()
	vault, err := market.DeriveVaultAddress(s.factory, tokenIn)
	if err != nil {
		return nil, err
	}
	queryID := rand.Uint64()

	var msg *wallet.Message
	if tokenIn.IsNative() {
		// Attach the swap amount plus gas headroom.
		attach := new(big.Int).Add(quote.AmountIn, quote.GasEstimate)
		msg = wallet.SimpleMessage(vault, tlb.FromNanoTON(attach), BuildNativeSwapBody(queryID, quote, recipient))
	} else {
		jettonWallet, err := s.senderJettonWallet(ctx, tokenIn)
		if err != nil {
			return nil, err
		}
		forward := new(big.Int).Div(quote.GasEstimate, big.NewInt(2))
		body := BuildJettonSwapBody(queryID, quote, recipient, vault, s.wallet.WalletAddress(), forward)
		msg = wallet.SimpleMessage(jettonWallet, tlb.FromNanoTON(quote.GasEstimate), body)
	}

	tx, _, err := s.wallet.SendWaitTransaction(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("send swap: %w", err)
	}

	handle := &domain.TxHandle{
		Hash:      base64.StdEncoding.EncodeToString(tx.Hash),
		QuoteID:   quote.ID,
		Submitted: time.Now(),
	}
	log.Info().Str("quoteId", quote.ID).Str("txHash", handle.Hash).Msg("[dedust] swap submitted")
	return handle, nil
}

// senderJettonWallet resolves the engine wallet's jetton wallet for the
// input asset.
func (s *Submitter) senderJettonWallet(ctx context.Context, asset domain.Asset) (*address.Address, error) {
	api := s.api
	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("masterchain info: %w", err)
	}
	res, err := api.RunGetMethod(ctx, block, asset.Address, "get_wallet_address",
		cell.BeginCell().MustStoreAddr(s.wallet.WalletAddress()).EndCell().BeginParse())
	if err != nil {
		return nil, fmt.Errorf("resolve jetton wallet: %w", err)
	}
	slice, err := res.Slice(0)
	if err != nil {
		return nil, fmt.Errorf("jetton wallet result: %w", err)
	}
	return slice.LoadAddr()
}
