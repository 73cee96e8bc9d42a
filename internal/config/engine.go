package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// EngineConfig holds the per-network tunables of the routing engine. Sweep
// interval and TTLs are explicit configuration, not hidden constants.
type EngineConfig struct {
	// Network is the logical network name the engine instance is keyed by.
	Network string

	// FactoryAddress is the DEX factory contract used for pool address
	// derivation.
	FactoryAddress string

	// LiteserverConfigURL points at the network's liteserver config
	// (global.config.json) used by the chain adapter.
	LiteserverConfigURL string

	// TokenListPath is the JSON token registry (symbol, address, decimals).
	// Empty runs with the native asset only; callers then pass raw addresses.
	TokenListPath string

	// BridgeAssets are the intermediate assets tried for multi-hop routing.
	// Empty means the built-in default set.
	BridgeAssets []string

	// MaxHops is the route search hop budget. The searcher currently
	// explores up to two hops; larger values only raise the ceiling.
	MaxHops int

	// PoolCacheTTL bounds snapshot staleness; PoolCacheSize bounds entries.
	PoolCacheTTL  time.Duration
	PoolCacheSize int

	// QuoteTTL is how long an issued quote stays executable; SweepInterval
	// is how often expired quotes are evicted.
	QuoteTTL      time.Duration
	SweepInterval time.Duration

	// FetchTimeout bounds a single pool-snapshot fetch. A candidate whose
	// fetch exceeds it is dropped from the search.
	FetchTimeout time.Duration

	// GasEstimate is the flat gas figure attached to swap quotes, in
	// nanotons.
	GasEstimate int64

	// WalletSeed is the space-separated mnemonic of the submitter wallet.
	// Empty disables quote execution; the engine stays quote-only.
	WalletSeed string
}

func (c *EngineConfig) Load(v *viper.Viper) error {
	v.SetDefault("NETWORK", "mainnet")
	v.SetDefault("LITESERVER_CONFIG_URL", "https://ton.org/global.config.json")
	v.SetDefault("MAX_HOPS", 2)
	v.SetDefault("POOL_CACHE_TTL", 30*time.Second)
	v.SetDefault("POOL_CACHE_SIZE", 2048)
	v.SetDefault("QUOTE_TTL", 60*time.Second)
	v.SetDefault("QUOTE_SWEEP_INTERVAL", 10*time.Second)
	v.SetDefault("FETCH_TIMEOUT", 5*time.Second)
	v.SetDefault("GAS_ESTIMATE", 300_000_000) // 0.3 TON

	c.Network = v.GetString("NETWORK")
	c.FactoryAddress = v.GetString("FACTORY_ADDRESS")
	c.LiteserverConfigURL = v.GetString("LITESERVER_CONFIG_URL")
	c.TokenListPath = v.GetString("TOKEN_LIST_PATH")
	c.BridgeAssets = v.GetStringSlice("BRIDGE_ASSETS")
	c.MaxHops = v.GetInt("MAX_HOPS")
	c.PoolCacheTTL = v.GetDuration("POOL_CACHE_TTL")
	c.PoolCacheSize = v.GetInt("POOL_CACHE_SIZE")
	c.QuoteTTL = v.GetDuration("QUOTE_TTL")
	c.SweepInterval = v.GetDuration("QUOTE_SWEEP_INTERVAL")
	c.FetchTimeout = v.GetDuration("FETCH_TIMEOUT")
	c.GasEstimate = v.GetInt64("GAS_ESTIMATE")
	c.WalletSeed = v.GetString("WALLET_SEED")
	return c.Validate()
}

func (c *EngineConfig) Validate() error {
	if c.FactoryAddress == "" {
		return errors.New("FACTORY_ADDRESS is required")
	}
	if c.MaxHops < 1 {
		return errors.New("MAX_HOPS must be at least 1")
	}
	if c.QuoteTTL <= 0 || c.SweepInterval <= 0 || c.PoolCacheTTL <= 0 {
		return errors.New("TTLs and sweep interval must be positive")
	}
	return nil
}
