package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/http/httputil"
)

type SwapHandler struct {
	engines *engine.Registry
}

func NewSwapHandler(engines *engine.Registry) *SwapHandler {
	return &SwapHandler{engines: engines}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("/execute", h.executeQuote)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

// ExecuteRequest identifies the quote to submit
type ExecuteRequest struct {
	QuoteID string `json:"quoteId" binding:"required" example:"1756700000000-8f14e45f-ceea-4672-b27a-34f6f23c72ab"`
	// Recipient receives the swap output; empty delivers to the engine wallet.
	Recipient string `json:"recipient,omitempty" example:"EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"`
}

// ExecuteResponse reports the submitted transaction
type ExecuteResponse struct {
	TxHash    string `json:"txHash"`
	QuoteID   string `json:"quoteId"`
	Submitted int64  `json:"submitted"`
}

// executeQuote godoc
// @Summary Execute a previously issued quote
// @Description Re-validates the quote's expiry and submits the swap to the chain
// @Tags swap
// @Accept json
// @Produce json
// @Param request body ExecuteRequest true "Quote to execute"
// @Success 200 {object} httputil.Response{data=ExecuteResponse}
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Failure 410 {object} httputil.Response
// @Router /swap/execute [post]
func (h *SwapHandler) executeQuote(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	var recipient *address.Address
	if req.Recipient != "" {
		addr, err := address.ParseAddr(req.Recipient)
		if err != nil {
			httputil.BadRequest(c, fmt.Sprintf("invalid recipient: %s", req.Recipient))
			return
		}
		recipient = addr
	}

	handle, err := eng.ExecuteQuote(c.Request.Context(), req.QuoteID, recipient)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	httputil.Success(c, ExecuteResponse{
		TxHash:    handle.Hash,
		QuoteID:   handle.QuoteID,
		Submitted: handle.Submitted.UnixMilli(),
	})
}
