package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/xssnick/tonutils-go/address"

	"github.com/tondexlabs/swap-engine/internal/adapters/dedust"
	"github.com/tondexlabs/swap-engine/internal/common"
	"github.com/tondexlabs/swap-engine/internal/config"
	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/engine"
	"github.com/tondexlabs/swap-engine/internal/http"
	"github.com/tondexlabs/swap-engine/internal/services/liquidity"
	"github.com/tondexlabs/swap-engine/internal/services/market"
	"github.com/tondexlabs/swap-engine/internal/services/quoter"
	"github.com/tondexlabs/swap-engine/internal/services/router"
	"github.com/tondexlabs/swap-engine/internal/services/tokens"
)

// @title TON Swap Engine API
// @version 1.0
// @description Swap routing and liquidity quoting engine for DeDust-style constant-product pools on TON.
// @description
// @description ## - Features
// @description - **Smart Routing**: Direct or two-hop routing through TON/USDT bridge assets
// @description - **Price Impact Analysis**: Fee-excluded price impact with severity warnings
// @description - **Slippage Protection**: Quotes carry slippage-bounded min-output thresholds
// @description - **Quote Lifecycle**: Issued quotes stay executable until their deadline, then expire
// @description - **Liquidity Quoting**: Deposit matching, LP token estimates and withdrawal previews
// @description
// @description ## - Usage Tips
// @description - Amounts without a decimal point are smallest units (nanotons for TON)
// @description - Amounts with a decimal point are display amounts scaled by token decimals
// @description - Default slippage is 50 bps (0.5%)
// @description - Quotes expire after QUOTE_TTL (60s by default)
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Get swap quotes with price impact analysis and routing information
// @tag.name swap
// @tag.description Execute previously issued quotes on chain
// @tag.name liquidity
// @tag.description Quote liquidity deposits, withdrawals and positions
// @tag.name pools
// @tag.description Inspect pool reserves, fees and LP supply
// @tag.name tokens
// @tag.description List the configured token registry

func main() {
	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using process environment")
	}

	v := config.NewViper()

	generalConf := &config.GeneralConfig{}
	if err := generalConf.Load(v); err != nil {
		log.Error().Err(err).Msg("failed to load server config")
		return
	}
	engineConf := &config.EngineConfig{}
	if err := engineConf.Load(v); err != nil {
		log.Error().Err(err).Msg("failed to load engine config")
		return
	}

	common.InitLogger(generalConf.Env, generalConf.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	api, err := dedust.Connect(ctx, engineConf.LiteserverConfigURL)
	cancel()
	if err != nil {
		log.Error().Err(err).Str("url", engineConf.LiteserverConfigURL).Msg("failed to connect to liteservers")
		return
	}

	factory, err := address.ParseAddr(engineConf.FactoryAddress)
	if err != nil {
		log.Error().Err(err).Msg("invalid FACTORY_ADDRESS")
		return
	}

	registry, err := tokens.Load(engineConf.TokenListPath)
	if err != nil {
		log.Error().Err(err).Str("path", engineConf.TokenListPath).Msg("failed to load token list")
		return
	}

	bridges, err := resolveBridges(engineConf.BridgeAssets)
	if err != nil {
		log.Error().Err(err).Msg("invalid BRIDGE_ASSETS")
		return
	}

	provider := dedust.NewProvider(api, factory)
	marketSvc := market.NewService(provider, engineConf.PoolCacheSize, engineConf.PoolCacheTTL, engineConf.FetchTimeout)
	finder := router.NewFinder(marketSvc, bridges, engineConf.MaxHops)
	quoterSvc := quoter.NewService(finder, engineConf.QuoteTTL, engineConf.SweepInterval, engineConf.GasEstimate)
	liquiditySvc := liquidity.NewService(marketSvc)

	var submitter engine.Submitter
	if seed := strings.Fields(engineConf.WalletSeed); len(seed) > 0 {
		sub, err := dedust.NewSubmitter(api, seed, factory)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize submitter wallet")
			return
		}
		submitter = sub
		log.Info().Str("wallet", sub.Address().String()).Msg("quote execution enabled")
	} else {
		log.Info().Msg("WALLET_SEED not set, running quote-only")
	}

	eng := engine.New(engineConf.Network, marketSvc, quoterSvc, liquiditySvc, registry, submitter)
	engines := engine.NewRegistry(eng)

	httpSvc := http.NewHTTPService(generalConf, engines)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server failed")
	}

	if err := httpSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error during http shutdown")
	}
	engines.Close()
	log.Info().Msg("shutdown complete")
}

func resolveBridges(refs []string) ([]domain.Asset, error) {
	if len(refs) == 0 {
		refs = common.DefaultBridgeAssets
	}
	out := make([]domain.Asset, 0, len(refs))
	for _, ref := range refs {
		a, err := domain.ParseAsset(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
