package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/config"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/services/liquidity"
	"github.com/tondexlabs/swap-engine/internal/services/market"
	"github.com/tondexlabs/swap-engine/internal/services/quoter"
	"github.com/tondexlabs/swap-engine/internal/services/router"
	"github.com/tondexlabs/swap-engine/internal/services/tokens"
)

var (
	tonAsset  = domain.NativeAsset()
	usdtAsset = domain.JettonAsset(address.MustParseAddr("EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"))
	poolAddr  = address.MustParseAddr("EQBfBWT7X2BHg9tXAxzhz2aKiNTU1tpt5NsiK0uSDW_YAJ67")
)

type stubProvider struct{}

func (p *stubProvider) GetPoolSnapshot(_ context.Context, a, b domain.Asset, variant domain.PoolVariant) (*domain.PoolSnapshot, error) {
	a0, a1, _ := domain.SortAssets(a, b)
	if variant != domain.VariantVolatile || !a0.Equal(tonAsset) || !a1.Equal(usdtAsset) {
		return nil, common.ErrPoolNotFound
	}
	return &domain.PoolSnapshot{
		Address:       poolAddr,
		Asset0:        tonAsset,
		Asset1:        usdtAsset,
		Reserve0:      big.NewInt(10_000_000_000),
		Reserve1:      big.NewInt(25_000_000_000),
		FeeBps:        30,
		LPTotalSupply: big.NewInt(15_000_000_000),
		Variant:       domain.VariantVolatile,
		FetchedAt:     time.Now(),
	}, nil
}

func (p *stubProvider) GetLPBalance(context.Context, *address.Address, *address.Address) (*big.Int, error) {
	return big.NewInt(1_500_000_000), nil
}

type fakeSubmitter struct{}

func (f *fakeSubmitter) SubmitSwap(_ context.Context, quote *domain.Quote, _ *address.Address) (*domain.TxHandle, error) {
	return &domain.TxHandle{Hash: "deadbeef", QuoteID: quote.ID, Submitted: time.Now()}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mkt := market.NewService(&stubProvider{}, 16, time.Minute, time.Second)
	finder := router.NewFinder(mkt, nil, 2)
	quoterSvc := quoter.NewService(finder, time.Minute, time.Second, 300_000_000)
	registry, err := tokens.Load("")
	require.NoError(t, err)

	eng := engine.New("mainnet", mkt, quoterSvc, liquidity.NewService(mkt), registry, &fakeSubmitter{})
	t.Cleanup(eng.Close)

	svc := NewHTTPService(&config.GeneralConfig{HTTPHost: "127.0.0.1", HTTPPort: "0"}, engine.NewRegistry(eng))

	r := gin.New()
	api := r.Group("api")
	pub := api.Group(API_VERSION)
	priv := api.Group(API_VERSION)
	admin := api.Group(API_VERSION + "/admin")
	svc.setupHandlers(pub, priv, admin)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, target string, body []byte) (int, httputilResponse) {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = bytes.NewBuffer(body)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp httputilResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

type httputilResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func TestGetQuoteEndpoint(t *testing.T) {
	r := newTestRouter(t)

	code, resp := doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut=EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs&amount=1000000000&side=SELL&slippageBps=100", nil)
	require.Equal(t, 200, code, "error: %s", resp.Error)
	require.True(t, resp.Success)

	var quote QuoteResponse
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.NotEmpty(t, quote.QuoteID)
	assert.Equal(t, "SELL", quote.Side)
	assert.Equal(t, "1000000000", quote.AmountIn)
	assert.NotEmpty(t, quote.AmountOut)
	assert.Len(t, quote.Hops, 1)
	assert.EqualValues(t, 100, quote.SlippageBps)
}

func TestGetQuoteValidation(t *testing.T) {
	r := newTestRouter(t)

	code, _ := doRequest(t, r, "GET", "/api/v1/quote?tokenOut=USDT&amount=1000", nil)
	assert.Equal(t, 400, code, "missing tokenIn")

	code, _ = doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut=USDT&amount=1000", nil)
	assert.Equal(t, 400, code, "unknown symbol")

	code, _ = doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut="+usdtAsset.String()+"&amount=-5", nil)
	assert.Equal(t, 400, code, "negative amount")

	code, _ = doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut="+usdtAsset.String()+"&amount=1000&side=SIDEWAYS", nil)
	assert.Equal(t, 400, code, "bad side")
}

func TestGetQuoteZeroSlippage(t *testing.T) {
	r := newTestRouter(t)

	// An explicit 0 must not be coerced to the default tolerance.
	code, resp := doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut="+usdtAsset.String()+"&amount=1000000000&slippageBps=0", nil)
	require.Equal(t, 200, code, "error: %s", resp.Error)

	var quote QuoteResponse
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.EqualValues(t, 0, quote.SlippageBps)
	assert.Equal(t, quote.AmountOut, quote.AmountOutMin)

	// Absent still means the default.
	_, resp = doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut="+usdtAsset.String()+"&amount=1000000000", nil)
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.EqualValues(t, 50, quote.SlippageBps)
}

func TestGetQuoteNoRoute(t *testing.T) {
	r := newTestRouter(t)

	// No pool exists for this pair in the stub.
	code, resp := doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut=EQB-MPwrd1G6WKNkLz_VnV6WqBDd142KMQv-g1O-8QUA3728&amount=1000", nil)
	assert.Equal(t, 404, code)
	assert.False(t, resp.Success)
}

func TestQuoteLookupAndExecute(t *testing.T) {
	r := newTestRouter(t)

	_, resp := doRequest(t, r, "GET", "/api/v1/quote?tokenIn=TON&tokenOut=EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs&amount=1000000000", nil)
	var quote QuoteResponse
	require.NoError(t, json.Unmarshal(resp.Data, &quote))

	code, _ := doRequest(t, r, "GET", "/api/v1/quote/"+quote.QuoteID, nil)
	assert.Equal(t, 200, code)

	body, _ := json.Marshal(ExecuteRequest{QuoteID: quote.QuoteID})
	code, execResp := doRequest(t, r, "POST", "/api/v1/swap/execute", body)
	require.Equal(t, 200, code, "error: %s", execResp.Error)

	var exec ExecuteResponse
	require.NoError(t, json.Unmarshal(execResp.Data, &exec))
	assert.Equal(t, "deadbeef", exec.TxHash)

	// Consumed: second execution 404s.
	code, _ = doRequest(t, r, "POST", "/api/v1/swap/execute", body)
	assert.Equal(t, 404, code)
}

func TestExecuteUnknownQuote(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(ExecuteRequest{QuoteID: "1756700000000-missing"})
	code, _ := doRequest(t, r, "POST", "/api/v1/swap/execute", body)
	assert.Equal(t, 404, code)
}

func TestPoolInfoEndpoint(t *testing.T) {
	r := newTestRouter(t)

	code, resp := doRequest(t, r, "GET", "/api/v1/pools/info?assetA=TON&assetB=EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs", nil)
	require.Equal(t, 200, code, "error: %s", resp.Error)

	var pool PoolResponse
	require.NoError(t, json.Unmarshal(resp.Data, &pool))
	assert.Equal(t, poolAddr.String(), pool.Address)
	assert.EqualValues(t, 30, pool.FeeBps)
}

func TestLiquidityAddEndpoint(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(AddLiquidityRequest{
		AssetA:  "TON",
		AssetB:  "EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs",
		AmountA: "1000000000",
		AmountB: "5000000000",
	})
	code, resp := doRequest(t, r, "POST", "/api/v1/liquidity/add", body)
	require.Equal(t, 200, code, "error: %s", resp.Error)

	var quote LiquidityQuoteResponse
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.Equal(t, "Add", quote.Operation)
	assert.Equal(t, "1000000000", quote.Amount0)
	// Reserves are 1:2.5, so the deposit is matched down from 5e9.
	assert.Equal(t, "2500000000", quote.Amount1)
}

func TestTokensEndpoint(t *testing.T) {
	r := newTestRouter(t)

	code, resp := doRequest(t, r, "GET", "/api/v1/tokens", nil)
	require.Equal(t, 200, code)

	var list []TokenResponse
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.NotEmpty(t, list)
	assert.Equal(t, "TON", list[0].Symbol)
}
