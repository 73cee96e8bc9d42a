package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/http/httputil"
	"github.com/tondexlabs/swap-engine/internal/services/amm"
)

const defaultSlippageBps = 50

type QuoteHandler struct {
	engines *engine.Registry
}

func NewQuoteHandler(engines *engine.Registry) *QuoteHandler {
	return &QuoteHandler{engines: engines}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
	pub.GET("/:id", h.getQuoteByID)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest represents the parameters for requesting a swap quote
type QuoteRequest struct {
	// Input asset: "TON", a registered symbol, or a jetton master address
	TokenIn string `form:"tokenIn" binding:"required" example:"TON"`

	// Output asset, same forms as tokenIn
	TokenOut string `form:"tokenOut" binding:"required" example:"USDT"`

	// Amount in smallest units, or a display amount with a decimal point
	Amount string `form:"amount" binding:"required" example:"2500000000"`

	// "SELL"/"ExactIn": amount is the exact input, output is estimated
	// "BUY"/"ExactOut": amount is the exact output, input is estimated
	Side string `form:"side" example:"SELL"`

	// Slippage tolerance in basis points. Absent means the 50 (0.5%)
	// default; an explicit 0 is honored.
	SlippageBps *uint16 `form:"slippageBps" example:"50"`
}

// HopInfo describes a single hop in the swap route
type HopInfo struct {
	PoolAddress string `json:"poolAddress"`
	Variant     string `json:"variant"`
	TokenIn     string `json:"tokenIn"`
	TokenOut    string `json:"tokenOut"`
	AmountIn    string `json:"amountIn"`
	AmountOut   string `json:"amountOut"`
	FeeBps      uint16 `json:"feeBps"`
}

// QuoteResponse contains the priced swap with routing information
type QuoteResponse struct {
	QuoteID  string `json:"quoteId"`
	TokenIn  string `json:"tokenIn"`
	TokenOut string `json:"tokenOut"`
	Side     string `json:"side"`

	AmountIn     string `json:"amountIn"`
	AmountOut    string `json:"amountOut"`
	AmountOutMin string `json:"amountOutMin"`
	AmountInMax  string `json:"amountInMax,omitempty"`

	PriceImpactBps      uint16 `json:"priceImpactBps"`
	PriceImpactPercent  string `json:"priceImpactPercent"`
	PriceImpactSeverity string `json:"priceImpactSeverity"`
	PriceImpactWarning  string `json:"priceImpactWarning,omitempty"`

	TotalFeeBps uint32 `json:"totalFeeBps"`
	GasEstimate string `json:"gasEstimate"`

	Hops      []HopInfo `json:"hops"`
	RoutePath []string  `json:"routePath"`

	SlippageBps uint16 `json:"slippageBps"`
	CreatedAt   int64  `json:"createdAt"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// getQuote godoc
// @Summary Get a swap quote
// @Description Prices a swap across DeDust pools and returns an executable, time-bounded quote
// @Tags quote
// @Produce json
// @Param tokenIn query string true "Input asset (symbol or address)"
// @Param tokenOut query string true "Output asset (symbol or address)"
// @Param amount query string true "Amount (smallest units, or display amount with decimal point)"
// @Param side query string false "SELL (exact in, default) or BUY (exact out)"
// @Param slippageBps query int false "Slippage tolerance in bps, default 50"
// @Success 200 {object} httputil.Response{data=QuoteResponse}
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Failure 503 {object} httputil.Response
// @Router /quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	tokenIn, err := eng.Tokens().Resolve(req.TokenIn)
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid tokenIn: %s", req.TokenIn))
		return
	}
	tokenOut, err := eng.Tokens().Resolve(req.TokenOut)
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid tokenOut: %s", req.TokenOut))
		return
	}
	side, ok := parseSide(req.Side)
	if !ok {
		httputil.BadRequest(c, fmt.Sprintf("invalid side: %s", req.Side))
		return
	}

	// The amount refers to the estimated side: input for SELL, output for BUY.
	amountAsset := tokenIn
	if side == domain.SideBuy {
		amountAsset = tokenOut
	}
	amount, err := parseAmount(eng.Tokens(), amountAsset, req.Amount)
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid amount: %s", req.Amount))
		return
	}

	slippage := uint16(defaultSlippageBps)
	if req.SlippageBps != nil {
		slippage = *req.SlippageBps
	}

	quote, err := eng.QuoteSwap(c.Request.Context(), tokenIn, tokenOut, amount, side, slippage)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	httputil.Success(c, toQuoteResponse(quote))
}

// getQuoteByID godoc
// @Summary Look up an issued quote
// @Tags quote
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} httputil.Response{data=QuoteResponse}
// @Failure 404 {object} httputil.Response
// @Failure 410 {object} httputil.Response
// @Router /quote/{id} [get]
func (h *QuoteHandler) getQuoteByID(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	quote, err := eng.GetQuote(c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	httputil.Success(c, toQuoteResponse(quote))
}

func toQuoteResponse(q *domain.Quote) QuoteResponse {
	hops := q.Route.Hops()
	hopInfos := make([]HopInfo, len(hops))
	for i, hop := range hops {
		hopInfos[i] = HopInfo{
			PoolAddress: hop.Pool.Address.String(),
			Variant:     hop.Pool.Variant.String(),
			TokenIn:     hop.TokenIn.String(),
			TokenOut:    hop.TokenOut.String(),
			AmountIn:    hop.AmountIn.String(),
			AmountOut:   hop.AmountOut.String(),
			FeeBps:      hop.Pool.FeeBps,
		}
	}

	path := q.Route.Path()
	routePath := make([]string, len(path))
	for i, asset := range path {
		routePath[i] = asset.String()
	}

	resp := QuoteResponse{
		QuoteID:             q.ID,
		TokenIn:             q.Route.TokenIn().String(),
		TokenOut:            q.Route.TokenOut().String(),
		Side:                q.Side.String(),
		AmountIn:            q.AmountIn.String(),
		AmountOut:           q.AmountOut.String(),
		AmountOutMin:        q.AmountOutMin.String(),
		PriceImpactBps:      q.PriceImpactBps,
		PriceImpactPercent:  fmt.Sprintf("%.2f%%", float64(q.PriceImpactBps)/100),
		PriceImpactSeverity: string(amm.GetPriceImpactSeverity(q.PriceImpactBps)),
		PriceImpactWarning:  amm.GetPriceImpactWarning(q.PriceImpactBps),
		TotalFeeBps:         q.Route.TotalFeeBps(),
		GasEstimate:         q.GasEstimate.String(),
		Hops:                hopInfos,
		RoutePath:           routePath,
		SlippageBps:         q.SlippageBps,
		CreatedAt:           q.CreatedAt.UnixMilli(),
		ExpiresAt:           q.ExpiresAt.UnixMilli(),
	}
	if q.AmountInMax != nil {
		resp.AmountInMax = q.AmountInMax.String()
	}
	return resp
}
