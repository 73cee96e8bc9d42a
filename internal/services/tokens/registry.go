// Package tokens maps human-facing token symbols to on-chain assets and
// converts between display amounts and smallest units. The registry is
// loaded once from a JSON token list at startup and is immutable afterwards.
package tokens

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
)

// Token is one entry of the token list file.
type Token struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"` // empty for the native asset
	Decimals int32  `json:"decimals"`
}

type Registry struct {
	bySymbol  map[string]Token
	byAddress map[string]Token
	tokens    []Token
}

// nativeFallback keeps the registry usable without a token list file: the
// native asset always resolves.
var nativeFallback = Token{Symbol: "TON", Name: "Toncoin", Decimals: 9}

// Load reads the token list file. A missing path yields a registry holding
// only the native asset, since the engine also accepts raw addresses.
func Load(path string) (*Registry, error) {
	r := &Registry{
		bySymbol:  make(map[string]Token),
		byAddress: make(map[string]Token),
	}
	r.add(nativeFallback)

	if path == "" {
		return r, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token list: %w", err)
	}
	var list []Token
	if err := sonic.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse token list: %w", err)
	}
	for _, tok := range list {
		if tok.Symbol == "" || tok.Decimals < 0 {
			log.Warn().Str("symbol", tok.Symbol).Msg("[tokens] skipping malformed token list entry")
			continue
		}
		if tok.Address != "" {
			if _, err := address.ParseAddr(tok.Address); err != nil {
				log.Warn().Str("symbol", tok.Symbol).Str("address", tok.Address).Msg("[tokens] skipping token with bad address")
				continue
			}
		}
		r.add(tok)
	}
	log.Info().Int("count", len(r.tokens)).Str("path", path).Msg("[tokens] token list loaded")
	return r, nil
}

func (r *Registry) add(tok Token) {
	key := strings.ToUpper(tok.Symbol)
	if _, exists := r.bySymbol[key]; exists {
		return
	}
	r.bySymbol[key] = tok
	if tok.Address != "" {
		r.byAddress[tok.Address] = tok
	}
	r.tokens = append(r.tokens, tok)
}

// Resolve maps a symbol or raw address to an asset. Symbols are looked up
// case-insensitively; anything not in the registry must parse as an address.
func (r *Registry) Resolve(ref string) (domain.Asset, error) {
	ref = strings.TrimSpace(ref)
	if tok, ok := r.bySymbol[strings.ToUpper(ref)]; ok {
		if tok.Address == "" {
			return domain.NativeAsset(), nil
		}
		addr, err := address.ParseAddr(tok.Address)
		if err != nil {
			return domain.Asset{}, domain.ErrInvalidAsset
		}
		return domain.JettonAsset(addr), nil
	}
	return domain.ParseAsset(ref)
}

// Describe returns registry metadata for an asset, falling back to a
// generic 9-decimal jetton description for unlisted assets.
func (r *Registry) Describe(asset domain.Asset) Token {
	if asset.IsNative() {
		return r.bySymbol["TON"]
	}
	if tok, ok := r.byAddress[asset.String()]; ok {
		return tok
	}
	return Token{Symbol: asset.String(), Address: asset.String(), Decimals: 9}
}

// Tokens lists every registered token in load order.
func (r *Registry) Tokens() []Token {
	return r.tokens
}

// ToSmallestUnits converts a human-readable decimal amount string into the
// asset's integer smallest units. Fractions beyond the asset's precision are
// rejected rather than truncated: an amount the chain cannot represent is a
// caller mistake.
func (r *Registry) ToSmallestUnits(asset domain.Asset, amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || d.Sign() <= 0 {
		return decimal.Zero, common.ErrInvalidAmount
	}
	scaled := d.Shift(r.Describe(asset).Decimals)
	if !scaled.IsInteger() {
		return decimal.Zero, common.ErrInvalidAmount
	}
	return scaled, nil
}

// FromSmallestUnits renders integer smallest units as a display amount.
func (r *Registry) FromSmallestUnits(asset domain.Asset, units decimal.Decimal) decimal.Decimal {
	return units.Shift(-r.Describe(asset).Decimals)
}
