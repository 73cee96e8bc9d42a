package http

import (
	"github.com/gin-gonic/gin"

	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/http/httputil"
)

type TokenHandler struct {
	engines *engine.Registry
}

func NewTokenHandler(engines *engine.Registry) *TokenHandler {
	return &TokenHandler{engines: engines}
}

func (h *TokenHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listTokens)
}

func (h *TokenHandler) Root() string {
	return "/tokens"
}

// TokenResponse is one registry entry
type TokenResponse struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Decimals int32  `json:"decimals"`
}

// listTokens godoc
// @Summary List registered tokens
// @Tags tokens
// @Produce json
// @Success 200 {object} httputil.Response{data=[]TokenResponse}
// @Router /tokens [get]
func (h *TokenHandler) listTokens(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	registered := eng.Tokens().Tokens()
	out := make([]TokenResponse, len(registered))
	for i, tok := range registered {
		out[i] = TokenResponse{
			Symbol:   tok.Symbol,
			Name:     tok.Name,
			Address:  tok.Address,
			Decimals: tok.Decimals,
		}
	}
	httputil.Success(c, out)
}
