package http

import (
	"math/big"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/http/httputil"
	"github.com/tondexlabs/swap-engine/internal/services/tokens"
)

// resolveEngine picks the engine for the request's "network" query parameter.
// With a single configured network the parameter is optional.
func resolveEngine(c *gin.Context, engines *engine.Registry) (*engine.Engine, bool) {
	e, err := engines.Get(c.Query("network"))
	if err != nil {
		writeEngineError(c, err)
		return nil, false
	}
	return e, true
}

// parseAmount accepts either smallest units ("2500000000") or a display
// amount with a decimal point ("2.5"), converting the latter through the
// token registry's decimals for the asset.
func parseAmount(registry *tokens.Registry, asset domain.Asset, raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, common.ErrInvalidAmount
	}
	if strings.Contains(raw, ".") {
		units, err := registry.ToSmallestUnits(asset, raw)
		if err != nil {
			return nil, err
		}
		return units.BigInt(), nil
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, common.ErrInvalidAmount
	}
	return amount, nil
}

func parseSide(raw string) (domain.TradeSide, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "SELL", "EXACTIN":
		return domain.SideSell, true
	case "BUY", "EXACTOUT":
		return domain.SideBuy, true
	default:
		return 0, false
	}
}

func writeEngineError(c *gin.Context, err error) {
	he := common.FromEngineError(err)
	httputil.Error(c, he.StatusCode, he.Message)
}
