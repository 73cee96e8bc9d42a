package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/http/httputil"
)

type PoolHandler struct {
	engines *engine.Registry
}

func NewPoolHandler(engines *engine.Registry) *PoolHandler {
	return &PoolHandler{engines: engines}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/list", h.listPools)
	pub.GET("/info", h.getPool)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

// PoolResponse is the public view of a pool snapshot
type PoolResponse struct {
	Address       string `json:"address"`
	Asset0        string `json:"asset0"`
	Asset1        string `json:"asset1"`
	Reserve0      string `json:"reserve0"`
	Reserve1      string `json:"reserve1"`
	FeeBps        uint16 `json:"feeBps"`
	LPTotalSupply string `json:"lpTotalSupply"`
	Variant       string `json:"variant"`
	FetchedAt     int64  `json:"fetchedAt"`
}

// getPool godoc
// @Summary Get pool state for an asset pair
// @Tags pools
// @Produce json
// @Param assetA query string true "First asset (symbol or address)"
// @Param assetB query string true "Second asset (symbol or address)"
// @Param variant query string false "Pool variant, default volatile"
// @Success 200 {object} httputil.Response{data=PoolResponse}
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /pools/info [get]
func (h *PoolHandler) getPool(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	assetA, err := eng.Tokens().Resolve(c.Query("assetA"))
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid assetA: %s", c.Query("assetA")))
		return
	}
	assetB, err := eng.Tokens().Resolve(c.Query("assetB"))
	if err != nil {
		httputil.BadRequest(c, fmt.Sprintf("invalid assetB: %s", c.Query("assetB")))
		return
	}
	variant, ok := domain.ParsePoolVariant(c.Query("variant"))
	if !ok {
		httputil.BadRequest(c, fmt.Sprintf("invalid variant: %s", c.Query("variant")))
		return
	}

	snap, err := eng.GetPoolInfo(c.Request.Context(), assetA, assetB, variant)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	httputil.Success(c, toPoolResponse(snap))
}

// listPools godoc
// @Summary List pools across registered token pairs
// @Description Scans every pair of registered tokens in both variants and returns the pools that exist
// @Tags pools
// @Produce json
// @Success 200 {object} httputil.Response{data=[]PoolResponse}
// @Router /pools/list [get]
func (h *PoolHandler) listPools(c *gin.Context) {
	eng, ok := resolveEngine(c, h.engines)
	if !ok {
		return
	}

	registered := eng.Tokens().Tokens()
	assets := make([]domain.Asset, 0, len(registered))
	for _, tok := range registered {
		asset, err := eng.Tokens().Resolve(tok.Symbol)
		if err != nil {
			continue
		}
		assets = append(assets, asset)
	}

	pools := make([]PoolResponse, 0)
	for i := 0; i < len(assets); i++ {
		for j := i + 1; j < len(assets); j++ {
			for _, variant := range []domain.PoolVariant{domain.VariantVolatile, domain.VariantStable} {
				snap, err := eng.GetPoolInfo(c.Request.Context(), assets[i], assets[j], variant)
				if err != nil {
					if !errors.Is(err, common.ErrPoolNotFound) && c.Request.Context().Err() != nil {
						writeEngineError(c, err)
						return
					}
					continue
				}
				pools = append(pools, toPoolResponse(snap))
			}
		}
	}
	httputil.Success(c, pools)
}

func toPoolResponse(snap *domain.PoolSnapshot) PoolResponse {
	return PoolResponse{
		Address:       snap.Address.String(),
		Asset0:        snap.Asset0.String(),
		Asset1:        snap.Asset1.String(),
		Reserve0:      snap.Reserve0.String(),
		Reserve1:      snap.Reserve1.String(),
		FeeBps:        snap.FeeBps,
		LPTotalSupply: snap.LPTotalSupply.String(),
		Variant:       snap.Variant.String(),
		FetchedAt:     snap.FetchedAt.UnixMilli(),
	}
}
