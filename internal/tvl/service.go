// Package tvl computes the total value locked across the bridged tokens and
// the native bridge position. Each upstream concern is cached independently
// so a valuation pass reuses fresh data and tolerates partial failure.
package tvl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/GOATNetwork/tvl-summary/internal/cache"
	"github.com/GOATNetwork/tvl-summary/internal/domain"
	"github.com/GOATNetwork/tvl-summary/internal/explorer"
	"github.com/GOATNetwork/tvl-summary/internal/metrics"
	"github.com/GOATNetwork/tvl-summary/internal/pricefeed"
	"github.com/GOATNetwork/tvl-summary/internal/registry"
	"github.com/GOATNetwork/tvl-summary/internal/subgraph"
)

// PriceCacheTTL is the fixed freshness window for the batch price snapshot.
// It is deliberately independent of the configurable cache TTL used for
// token metadata and ledger snapshots.
const PriceCacheTTL = 600 * time.Second

const (
	priceCacheKey  = "allTokenPrices"
	ledgerCacheKey = "nativeTokenData"

	tokenCacheKeyPrefix = "tokenData-"

	maxConcurrentFetches = 4
)

// MetadataSource fetches on-chain token metadata.
type MetadataSource interface {
	TokenInfo(ctx context.Context, address string) (explorer.TokenInfo, error)
}

// PriceSource fetches USD quotes for a set of price keys in one call.
type PriceSource interface {
	Prices(ctx context.Context, keys []string) (pricefeed.PriceMap, error)
}

// LedgerSource fetches the bridge-wide deposit/withdraw counters.
type LedgerSource interface {
	BridgeAggregation(ctx context.Context) (*subgraph.BridgeAggregation, error)
}

// Service orchestrates one valuation pass: cached upstream fetches, per-asset
// valuation, protocol total. A pass is a pure function of cache state; it
// never mutates shared asset objects, so concurrent passes cannot interfere.
type Service struct {
	registry *registry.Registry
	metadata MetadataSource
	prices   PriceSource
	ledger   LedgerSource

	metadataCache *cache.Store[explorer.TokenInfo]
	priceCache    *cache.Store[pricefeed.PriceMap]
	ledgerCache   *cache.Store[subgraph.BridgeAggregation]

	cacheTTL time.Duration
	flights  singleflight.Group
}

// NewService creates the valuation service. All dependencies are required.
// cacheTTL governs metadata and ledger freshness; prices use PriceCacheTTL.
func NewService(reg *registry.Registry, metadata MetadataSource, prices PriceSource, ledger LedgerSource, cacheTTL time.Duration) *Service {
	if reg == nil {
		panic("tvl.NewService: registry is nil")
	}
	if metadata == nil {
		panic("tvl.NewService: metadata source is nil")
	}
	if prices == nil {
		panic("tvl.NewService: price source is nil")
	}
	if ledger == nil {
		panic("tvl.NewService: ledger source is nil")
	}
	return &Service{
		registry:      reg,
		metadata:      metadata,
		prices:        prices,
		ledger:        ledger,
		metadataCache: cache.New[explorer.TokenInfo](),
		priceCache:    cache.New[pricefeed.PriceMap](),
		ledgerCache:   cache.New[subgraph.BridgeAggregation](),
		cacheTTL:      cacheTTL,
	}
}

// InvalidatePrices drops the cached price snapshot so the next pass fetches
// fresh quotes.
func (s *Service) InvalidatePrices() {
	s.priceCache.Delete(priceCacheKey)
}

// ComputeTVL runs one full valuation pass and returns a fresh report. Every
// upstream failure degrades only the affected asset; the pass itself fails
// only when the request context is cancelled.
func (s *Service) ComputeTVL(ctx context.Context) (domain.TVLReport, error) {
	prices := s.fetchPrices(ctx)
	native := s.valueNative(ctx, prices)
	tokens := s.valueTokens(ctx, prices)

	if err := ctx.Err(); err != nil {
		return domain.TVLReport{}, fmt.Errorf("valuation pass interrupted: %w", err)
	}

	total := lo.Reduce(tokens, func(acc decimal.Decimal, t domain.TokenRecord, _ int) decimal.Decimal {
		return domain.SafeSum(acc, t.Amount)
	}, native.Amount)

	metrics.Passes.Inc()
	return domain.TVLReport{
		TotalTVL:    total.String(),
		NativeToken: native,
		Tokens:      tokens,
	}, nil
}

// fetchPrices returns the cached price snapshot, fetching it when stale. A
// failed fetch yields an empty map so the pass proceeds with zero prices;
// failures are never cached.
func (s *Service) fetchPrices(ctx context.Context) pricefeed.PriceMap {
	if cached, ok := s.priceCache.Get(priceCacheKey); ok {
		metrics.CacheHits.WithLabelValues("prices").Inc()
		return cached
	}
	metrics.CacheMisses.WithLabelValues("prices").Inc()

	v, err, _ := s.flights.Do(priceCacheKey, func() (any, error) {
		metrics.UpstreamRequests.WithLabelValues("pricefeed").Inc()
		prices, err := s.prices.Prices(ctx, s.registry.PriceKeys())
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues("pricefeed").Inc()
			return nil, err
		}
		s.priceCache.Set(priceCacheKey, prices, PriceCacheTTL)
		return prices, nil
	})
	if err != nil {
		slog.Warn("price fetch failed, valuing pass with zero prices", "error", err)
		return pricefeed.PriceMap{}
	}
	return v.(pricefeed.PriceMap)
}

// valueNative builds the native-asset record from the bridge ledger. When
// the ledger is unavailable the record is returned zero-valued and degraded;
// the rest of the pass is unaffected.
func (s *Service) valueNative(ctx context.Context, prices pricefeed.PriceMap) domain.NativeRecord {
	rec := domain.NativeRecord{
		TotalDepositUser:       "0",
		TotalBtcDepositTx:      "0",
		TotalBtcDepositAmount:  "0",
		TotalBtcWithdrawAmount: "0",
		TotalBtcBurnAmount:     "0",
		PreDeposit:             domain.PreDepositOffset.String(),
	}

	agg, err := s.fetchLedger(ctx)
	if err != nil {
		slog.Warn("bridge ledger unavailable, skipping native valuation", "error", err)
		rec.Degraded = true
		return rec
	}

	rec.TotalDepositUser = agg.TotalDepositUser
	rec.TotalBtcDepositTx = agg.TotalBtcDepositTx
	rec.TotalBtcDepositAmount = agg.TotalBtcDepositAmount
	rec.TotalBtcWithdrawAmount = agg.TotalBtcWithdrawAmount

	price, havePrice := prices[registry.NativePriceKey]
	if !havePrice {
		slog.Warn("no price for native asset, valued at zero", "priceKey", registry.NativePriceKey)
		rec.Degraded = true
	}

	rec.NormalizedSupply = domain.NativeNetSupply(
		rec.TotalBtcDepositAmount,
		rec.TotalBtcWithdrawAmount,
		rec.TotalBtcBurnAmount,
	)
	rec.Price = price
	rec.Amount = rec.NormalizedSupply.Mul(price)
	return rec
}

// valueTokens values every registry token. Fetches run concurrently but the
// result keeps registry order.
func (s *Service) valueTokens(ctx context.Context, prices pricefeed.PriceMap) []domain.TokenRecord {
	descriptors := s.registry.Tokens()
	records := make([]domain.TokenRecord, len(descriptors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, tok := range descriptors {
		g.Go(func() error {
			records[i] = s.valueToken(ctx, tok, prices)
			return nil
		})
	}
	// Workers never return errors; failures degrade individual records.
	_ = g.Wait()

	return records
}

func (s *Service) valueToken(ctx context.Context, tok domain.TokenDescriptor, prices pricefeed.PriceMap) domain.TokenRecord {
	rec := domain.TokenRecord{TokenDescriptor: tok}

	price, havePrice := prices[tok.PriceKey]
	rec.Price = price

	info, err := s.fetchTokenInfo(ctx, tok.Address)
	if err != nil {
		slog.Warn("token metadata unavailable, zero-valuing asset", "symbol", tok.Symbol, "error", err)
		rec.Degraded = true
		return rec
	}

	rec.TotalSupply = info.TotalSupply
	rec.Decimals = info.Decimals
	rec.NormalizedSupply = domain.ScaleSupply(info.TotalSupply, info.Decimals)
	rec.Amount = rec.NormalizedSupply.Mul(price)

	if !havePrice {
		slog.Warn("no price for asset, valued at zero", "symbol", tok.Symbol, "priceKey", tok.PriceKey)
		rec.Degraded = true
	}
	return rec
}

func (s *Service) fetchTokenInfo(ctx context.Context, address string) (explorer.TokenInfo, error) {
	key := tokenCacheKeyPrefix + address
	if cached, ok := s.metadataCache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("metadata").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("metadata").Inc()

	v, err, _ := s.flights.Do(key, func() (any, error) {
		metrics.UpstreamRequests.WithLabelValues("explorer").Inc()
		info, err := s.metadata.TokenInfo(ctx, address)
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues("explorer").Inc()
			return nil, err
		}
		s.metadataCache.Set(key, info, s.cacheTTL)
		return info, nil
	})
	if err != nil {
		return explorer.TokenInfo{}, err
	}
	return v.(explorer.TokenInfo), nil
}

func (s *Service) fetchLedger(ctx context.Context) (*subgraph.BridgeAggregation, error) {
	if cached, ok := s.ledgerCache.Get(ledgerCacheKey); ok {
		metrics.CacheHits.WithLabelValues("ledger").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("ledger").Inc()

	v, err, _ := s.flights.Do(ledgerCacheKey, func() (any, error) {
		metrics.UpstreamRequests.WithLabelValues("subgraph").Inc()
		agg, err := s.ledger.BridgeAggregation(ctx)
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues("subgraph").Inc()
			return nil, err
		}
		s.ledgerCache.Set(ledgerCacheKey, *agg, s.cacheTTL)
		return agg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*subgraph.BridgeAggregation), nil
}
