package http

import (
	"fmt"
	"math/big"

	"github.com/gin-gonic/gin"
	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/http/httputil"
	"github.com/tondexlabs/swap-engine/internal/services/liquidity"
	"github.com/tondexlabs/swap-engine/internal/services/tokens"
)

type LiquidityHandler struct {
	engines *engine.Registry
}

func NewLiquidityHandler(engines *engine.Registry) *LiquidityHandler {
	return &LiquidityHandler{engines: engines}
}

func (h *LiquidityHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("/add", h.quoteAdd)
	pub.POST("/remove", h.quoteRemove)
	pub.GET("/position", h.getPosition)
}

func (h *LiquidityHandler) Root() string {
	return "/liquidity"
}

// AddLiquidityRequest describes the desired deposit
type AddLiquidityRequest struct {
	AssetA  string `json:"assetA" binding:"required" example:"TON"`
	AssetB  string `json:"assetB" binding:"required" example:"USDT"`
	Variant string `json:"variant" example:"volatile"`
	AmountA string `json:"amountA" binding:"required" example:"1000000000"`
	AmountB string `json:"amountB" binding:"required" example:"2500000000"`
	MinA    string `json:"minA" example:"990000000"`
	MinB    string `json:"minB" example:"2475000000"`
}

// RemoveLiquidityRequest burns an LP amount or a percentage of a position
type RemoveLiquidityRequest struct {
	AssetA   string `json:"assetA" binding:"required" example:"TON"`
	AssetB   string `json:"assetB" binding:"required" example:"USDT"`
	Variant  string `json:"variant" example:"volatile"`
	LPAmount string `json:"lpAmount" example:"500000"`
	Percent  uint8  `json:"percent" example:"50"`
	Owner    string `json:"owner" example:"EQB-MPwrd1G6WKNkLz_VnV6WqBDd142KMQv-g1O-8QUA3728"`
	Min0     string `json:"min0"`
	Min1     string `json:"min1"`
}

// LiquidityQuoteResponse is the computed deposit or withdrawal
type LiquidityQuoteResponse struct {
	PoolAddress      string  `json:"poolAddress"`
	Operation        string  `json:"operation"`
	Amount0          string  `json:"amount0"`
	Amount1          string  `json:"amount1"`
	LPTokenDelta     string  `json:"lpTokenDelta"`
	PriceImpactBps   uint16  `json:"priceImpactBps"`
	PoolSharePercent float64 `json:"poolSharePercent"`
	FeeBps           uint16  `json:"feeBps"`
}

// PositionResponse projects an owner's LP balance against current reserves
type PositionResponse struct {
	Owner          string  `json:"owner"`
	PoolAddress    string  `json:"poolAddress"`
	LPTokenBalance string  `json:"lpTokenBalance"`
	ImpliedAmount0 string  `json:"impliedAmount0"`
	ImpliedAmount1 string  `json:"impliedAmount1"`
	SharePercent   float64 `json:"sharePercent"`
	UpdatedAt      int64   `json:"updatedAt"`
}

// quoteAdd godoc
// @Summary Quote a liquidity deposit
// @Description Computes the ratio-matched deposit amounts and expected LP tokens
// @Tags liquidity
// @Accept json
// @Produce json
// @Param request body AddLiquidityRequest true "Desired deposit"
// @Success 200 {object} httputil.Response{data=LiquidityQuoteResponse}
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /liquidity/add [post]
func (h *LiquidityHandler) quoteAdd(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	var req AddLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	assetA, assetB, variant, ok := h.parsePair(c, eng.Tokens(), req.AssetA, req.AssetB, req.Variant)
	if !ok {
		return
	}
	desiredA, err := parseAmount(eng.Tokens(), assetA, req.AmountA)
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid amountA: %s", req.AmountA))
		return
	}
	desiredB, err := parseAmount(eng.Tokens(), assetB, req.AmountB)
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid amountB: %s", req.AmountB))
		return
	}

	quote, err := eng.QuoteLiquidityAdd(c.Request.Context(), liquidity.AddRequest{
		AssetA:   assetA,
		AssetB:   assetB,
		Variant:  variant,
		DesiredA: desiredA,
		DesiredB: desiredB,
		MinA:     optionalAmount(req.MinA),
		MinB:     optionalAmount(req.MinB),
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}
	httputil.Success(c, toLiquidityResponse(quote))
}

// quoteRemove godoc
// @Summary Quote a liquidity withdrawal
// @Tags liquidity
// @Accept json
// @Produce json
// @Param request body RemoveLiquidityRequest true "LP amount or position percentage to burn"
// @Success 200 {object} httputil.Response{data=LiquidityQuoteResponse}
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /liquidity/remove [post]
func (h *LiquidityHandler) quoteRemove(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	var req RemoveLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	assetA, assetB, variant, ok := h.parsePair(c, eng.Tokens(), req.AssetA, req.AssetB, req.Variant)
	if !ok {
		return
	}

	removeReq := liquidity.RemoveRequest{
		AssetA:  assetA,
		AssetB:  assetB,
		Variant: variant,
		Percent: req.Percent,
		Min0:    optionalAmount(req.Min0),
		Min1:    optionalAmount(req.Min1),
	}
	if req.LPAmount != "" {
		lp, ok := new(big.Int).SetString(req.LPAmount, 10)
		if !ok || lp.Sign() <= 0 {
			httputil.BadRequest(c, fmt.Sprintf("invalid lpAmount: %s", req.LPAmount))
			return
		}
		removeReq.LPAmount = lp
	}
	if req.Owner != "" {
		owner, err := address.ParseAddr(req.Owner)
		if err != nil {
			httputil.BadRequest(c, fmt.Sprintf("invalid owner: %s", req.Owner))
			return
		}
		removeReq.Owner = owner
	}

	quote, err := eng.QuoteLiquidityRemove(c.Request.Context(), removeReq)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	httputil.Success(c, toLiquidityResponse(quote))
}

// getPosition godoc
// @Summary Get an owner's liquidity position
// @Tags liquidity
// @Produce json
// @Param owner query string true "Owner wallet address"
// @Param assetA query string true "First pool asset"
// @Param assetB query string true "Second pool asset"
// @Param variant query string false "Pool variant, default volatile"
// @Success 200 {object} httputil.Response{data=PositionResponse}
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /liquidity/position [get]
func (h *LiquidityHandler) getPosition(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	owner, err := address.ParseAddr(c.Query("owner"))
	if err != nil {
		httputil.BadRequest(c, "invalid owner address")
		return
	}
	assetA, assetB, variant, ok := h.parsePair(c, eng.Tokens(), c.Query("assetA"), c.Query("assetB"), c.Query("variant"))
	if !ok {
		return
	}

	pos, err := eng.GetPosition(c.Request.Context(), owner, assetA, assetB, variant)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	httputil.Success(c, PositionResponse{
		Owner:          pos.Owner.String(),
		PoolAddress:    pos.PoolAddress.String(),
		LPTokenBalance: pos.LPTokenBalance.String(),
		ImpliedAmount0: pos.ImpliedAmount0.String(),
		ImpliedAmount1: pos.ImpliedAmount1.String(),
		SharePercent:   pos.SharePercent,
		UpdatedAt:      pos.UpdatedAt.UnixMilli(),
	})
}

func (h *LiquidityHandler) parsePair(c *gin.Context, registry *tokens.Registry, rawA, rawB, rawVariant string) (domain.Asset, domain.Asset, domain.PoolVariant, bool) {
	assetA, err := registry.Resolve(rawA)
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid assetA: %s", rawA))
		return domain.Asset{}, domain.Asset{}, 0, false
	}
	assetB, err := registry.Resolve(rawB)
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid assetB: %s", rawB))
		return domain.Asset{}, domain.Asset{}, 0, false
	}
	variant, ok := domain.ParsePoolVariant(rawVariant)
	if !ok {
		httputil.BadRequest(c, fmt.Sprintf("invalid variant: %s", rawVariant))
		return domain.Asset{}, domain.Asset{}, 0, false
	}
	return assetA, assetB, variant, true
}

func optionalAmount(raw string) *big.Int {
	if raw == "" {
		return nil
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil
	}
	return amount
}

func toLiquidityResponse(q *domain.LiquidityQuote) LiquidityQuoteResponse {
	return LiquidityQuoteResponse{
		PoolAddress:      q.PoolAddress.String(),
		Operation:        q.Operation.String(),
		Amount0:          q.Amount0.String(),
		Amount1:          q.Amount1.String(),
		LPTokenDelta:     q.LPTokenDelta.String(),
		PriceImpactBps:   q.PriceImpactBps,
		PoolSharePercent: q.PoolSharePercent,
		FeeBps:           q.FeeBps,
	}
}
