package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tondex_quote_requests_total",
			Help: "Total number of swap quote requests",
		},
		[]string{"side", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tondex_quote_duration_seconds",
			Help:    "Swap quote request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"side"},
	)

	QuoteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tondex_quote_cache_size",
		Help: "Current number of entries in the quote cache",
	})

	QuotesExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tondex_quotes_expired_total",
		Help: "Total number of quotes evicted by the expiry sweep",
	})

	ExecuteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tondex_execute_requests_total",
			Help: "Total number of quote execution requests",
		},
		[]string{"status"},
	)

	// Routing metrics
	RouteCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tondex_route_candidates",
		Help:    "Number of viable route candidates per search",
		Buckets: []float64{0, 1, 2, 3, 5, 8},
	})

	RouteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tondex_route_search_duration_seconds",
		Help:    "Route discovery duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	})

	PriceImpact = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tondex_price_impact_bps",
			Help:    "Price impact in basis points",
			Buckets: []float64{0, 10, 50, 100, 300, 500, 1000},
		},
		[]string{"severity"},
	)

	// Pool state cache metrics
	PoolCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tondex_pool_cache_hits_total",
		Help: "Total number of pool state cache hits",
	})

	PoolCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tondex_pool_cache_misses_total",
		Help: "Total number of pool state cache misses",
	})

	PoolCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tondex_pool_cache_size",
		Help: "Current number of entries in the pool state cache",
	})

	ProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tondex_provider_failures_total",
			Help: "Total number of pool snapshot provider failures",
		},
		[]string{"reason"},
	)

	// Liquidity metrics
	LiquidityQuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tondex_liquidity_quote_requests_total",
			Help: "Total number of liquidity quote requests",
		},
		[]string{"operation", "status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tondex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tondex_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
