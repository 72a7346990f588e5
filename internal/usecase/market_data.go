package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/internal/provider"
	"FxSignals/internal/service/breaker"
	svcmetrics "FxSignals/internal/service/metrics"
	"FxSignals/internal/service/ratelimit"
	"FxSignals/internal/services/pricing"
	"FxSignals/pkg/cache"
	"FxSignals/pkg/config"
	"FxSignals/pkg/logger"
)

// MarketData fetches every data category through ranked provider
// chains, fronted by a short-TTL cache. Providers that are rate limited
// or circuit broken are skipped; the chain falls through to the next
// entry.
type MarketData struct {
	cfg       *config.Config
	registry  *provider.Registry
	limiter   *ratelimit.Limiter
	breakers  *breaker.Registry
	cache     cache.Service
	validator *pricing.Validator
	log       *logger.Logger
}

func NewMarketData(
	cfg *config.Config,
	registry *provider.Registry,
	limiter *ratelimit.Limiter,
	breakers *breaker.Registry,
	cacheSvc cache.Service,
	validator *pricing.Validator,
	log *logger.Logger,
) *MarketData {
	return &MarketData{
		cfg:       cfg,
		registry:  registry,
		limiter:   limiter,
		breakers:  breakers,
		cache:     cacheSvc,
		validator: validator,
		log:       log,
	}
}

func (m *MarketData) chain(category string) config.ChainConfig {
	if c, ok := m.cfg.Chains[category]; ok {
		return c
	}
	// sensible fallback: every registered provider of the category
	var names []string
	switch category {
	case provider.CategoryPrice:
		for name := range m.registry.Prices {
			names = append(names, name)
		}
	case provider.CategoryCandles:
		for name := range m.registry.Candles {
			names = append(names, name)
		}
	case provider.CategoryIndicators:
		for name := range m.registry.Indicators {
			names = append(names, name)
		}
	case provider.CategoryNews:
		for name := range m.registry.News {
			names = append(names, name)
		}
	case provider.CategoryEvents:
		for name := range m.registry.Events {
			names = append(names, name)
		}
	}
	// deterministic order, with the streamed book ranked first
	sort.Slice(names, func(i, j int) bool {
		if names[i] == provider.StreamName || names[j] == provider.StreamName {
			return names[i] == provider.StreamName
		}
		return names[i] < names[j]
	})
	return config.ChainConfig{Providers: names, Deadline: 15 * time.Second, CacheTTL: 5 * time.Minute}
}

// admit checks breaker and rate budget for one provider.
func (m *MarketData) admit(category, name string) bool {
	if !m.breakers.Admit(name) {
		svcmetrics.ProviderCalls.WithLabelValues(name, category, "breaker_open").Inc()
		return false
	}
	if !m.limiter.Allow(name) {
		svcmetrics.ProviderCalls.WithLabelValues(name, category, "rate_limited").Inc()
		return false
	}
	return true
}

func (m *MarketData) observe(category, name string, err error) {
	if err != nil {
		m.breakers.RecordFailure(name)
		svcmetrics.ProviderCalls.WithLabelValues(name, category, "error").Inc()
		m.log.Warn("provider call failed",
			logger.String("provider", name),
			logger.String("category", category),
			logger.Error(err))
		return
	}
	m.breakers.RecordSuccess(name)
	svcmetrics.ProviderCalls.WithLabelValues(name, category, "ok").Inc()
}

// ValidatedPrice gathers quotes from the whole price chain concurrently
// and cross-validates them. Cached per pair.
func (m *MarketData) ValidatedPrice(ctx context.Context, pair models.Pair) (models.ValidatedPrice, error) {
	key := cache.GenerateKeyWithParams("price", pair.String())
	var cached models.ValidatedPrice
	if err := m.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	chain := m.chain(provider.CategoryPrice)
	ctx, cancel := context.WithTimeout(ctx, chain.Deadline)
	defer cancel()
	start := time.Now()
	defer func() {
		svcmetrics.ChainLatency.WithLabelValues(provider.CategoryPrice).Observe(time.Since(start).Seconds())
	}()

	var (
		mu     sync.Mutex
		quotes []models.Quote
		wg     sync.WaitGroup
	)
	for _, name := range chain.Providers {
		p, ok := m.registry.Prices[name]
		if !ok {
			continue
		}
		if !m.admit(provider.CategoryPrice, name) {
			continue
		}
		wg.Add(1)
		go func(name string, p drepo.PriceProvider) {
			defer wg.Done()
			q, err := p.CurrentPrice(ctx, pair)
			m.observe(provider.CategoryPrice, name, err)
			if err != nil {
				return
			}
			mu.Lock()
			quotes = append(quotes, q)
			mu.Unlock()
		}(name, p)
	}
	wg.Wait()

	vp, err := m.validator.Validate(pair, quotes)
	if err != nil {
		return models.ValidatedPrice{}, fmt.Errorf("validated price %s: %w", pair, err)
	}

	ttl := m.cfg.Validation.CacheTTL
	if ttl <= 0 {
		ttl = chain.CacheTTL
	}
	if err := m.cache.Set(ctx, key, vp, ttl); err != nil {
		m.log.Warn("cache set failed", logger.String("key", key), logger.Error(err))
	}
	return vp, nil
}

// Candles walks the candle chain until one provider returns a series.
func (m *MarketData) Candles(ctx context.Context, pair models.Pair, tf drepo.Timeframe, count int) ([]models.Candle, error) {
	key := cache.GenerateKeyWithParams("candles", pair.String(), string(tf), count)
	var cached []models.Candle
	if err := m.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	chain := m.chain(provider.CategoryCandles)
	ctx, cancel := context.WithTimeout(ctx, chain.Deadline)
	defer cancel()

	var lastErr error
	for i, name := range chain.Providers {
		p, ok := m.registry.Candles[name]
		if !ok {
			continue
		}
		if !m.admit(provider.CategoryCandles, name) {
			continue
		}
		candles, err := p.Candles(ctx, pair, tf, count)
		m.observe(provider.CategoryCandles, name, err)
		if err != nil {
			lastErr = err
			if i == 0 {
				svcmetrics.ChainFallbacks.WithLabelValues(provider.CategoryCandles).Inc()
			}
			continue
		}

		ttl := chain.CacheTTL
		if tf == drepo.TF1d {
			ttl = 6 * time.Hour
		} else if d := tf.Duration() / 4; d > ttl {
			ttl = d
		}
		if err := m.cache.Set(ctx, key, candles, ttl); err != nil {
			m.log.Warn("cache set failed", logger.String("key", key), logger.Error(err))
		}
		return candles, nil
	}
	return nil, exhausted(provider.CategoryCandles, lastErr)
}

// CandlesAll fetches every analysis timeframe concurrently. Missing
// timeframes are tolerated; the caller's analyzers renormalize.
func (m *MarketData) CandlesAll(ctx context.Context, pair models.Pair, count int) map[drepo.Timeframe][]models.Candle {
	var (
		mu  sync.Mutex
		out = make(map[drepo.Timeframe][]models.Candle, 4)
		wg  sync.WaitGroup
	)
	for _, tf := range drepo.AllTimeframes() {
		wg.Add(1)
		go func(tf drepo.Timeframe) {
			defer wg.Done()
			candles, err := m.Candles(ctx, pair, tf, count)
			if err != nil {
				m.log.Debug("timeframe unavailable",
					logger.String("pair", pair.String()),
					logger.String("timeframe", string(tf)),
					logger.Error(err))
				return
			}
			mu.Lock()
			out[tf] = candles
			mu.Unlock()
		}(tf)
	}
	wg.Wait()
	return out
}

// Indicators walks the indicator chain for one currency.
func (m *MarketData) Indicators(ctx context.Context, currency string) ([]models.EconomicIndicator, error) {
	key := cache.GenerateKeyWithParams("indicators", currency)
	var cached []models.EconomicIndicator
	if err := m.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	chain := m.chain(provider.CategoryIndicators)
	ctx, cancel := context.WithTimeout(ctx, chain.Deadline)
	defer cancel()

	var lastErr error
	for i, name := range chain.Providers {
		p, ok := m.registry.Indicators[name]
		if !ok {
			continue
		}
		if !m.admit(provider.CategoryIndicators, name) {
			continue
		}
		inds, err := p.Indicators(ctx, currency)
		m.observe(provider.CategoryIndicators, name, err)
		if err != nil {
			lastErr = err
			if i == 0 {
				svcmetrics.ChainFallbacks.WithLabelValues(provider.CategoryIndicators).Inc()
			}
			continue
		}

		ttl := chain.CacheTTL
		if ttl < time.Hour {
			ttl = 6 * time.Hour
		}
		if err := m.cache.Set(ctx, key, inds, ttl); err != nil {
			m.log.Warn("cache set failed", logger.String("key", key), logger.Error(err))
		}
		return inds, nil
	}
	return nil, exhausted(provider.CategoryIndicators, lastErr)
}

// News walks the news chain for one pair.
func (m *MarketData) News(ctx context.Context, pair models.Pair) ([]models.NewsItem, error) {
	key := cache.GenerateKeyWithParams("news", pair.String())
	var cached []models.NewsItem
	if err := m.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	chain := m.chain(provider.CategoryNews)
	ctx, cancel := context.WithTimeout(ctx, chain.Deadline)
	defer cancel()
	since := time.Now().Add(-m.cfg.Analysis.NewsWindow)

	var lastErr error
	for i, name := range chain.Providers {
		p, ok := m.registry.News[name]
		if !ok {
			continue
		}
		if !m.admit(provider.CategoryNews, name) {
			continue
		}
		items, err := p.News(ctx, pair, since)
		m.observe(provider.CategoryNews, name, err)
		if err != nil {
			lastErr = err
			if i == 0 {
				svcmetrics.ChainFallbacks.WithLabelValues(provider.CategoryNews).Inc()
			}
			continue
		}

		if err := m.cache.Set(ctx, key, items, chain.CacheTTL); err != nil {
			m.log.Warn("cache set failed", logger.String("key", key), logger.Error(err))
		}
		return items, nil
	}
	return nil, exhausted(provider.CategoryNews, lastErr)
}

// Events walks the event chain for one pair.
func (m *MarketData) Events(ctx context.Context, pair models.Pair) ([]models.GeoEvent, error) {
	key := cache.GenerateKeyWithParams("events", pair.String())
	var cached []models.GeoEvent
	if err := m.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	chain := m.chain(provider.CategoryEvents)
	ctx, cancel := context.WithTimeout(ctx, chain.Deadline)
	defer cancel()
	since := time.Now().Add(-m.cfg.Analysis.EventWindow)

	var lastErr error
	for i, name := range chain.Providers {
		p, ok := m.registry.Events[name]
		if !ok {
			continue
		}
		if !m.admit(provider.CategoryEvents, name) {
			continue
		}
		events, err := p.Events(ctx, pair, since)
		m.observe(provider.CategoryEvents, name, err)
		if err != nil {
			lastErr = err
			if i == 0 {
				svcmetrics.ChainFallbacks.WithLabelValues(provider.CategoryEvents).Inc()
			}
			continue
		}

		if err := m.cache.Set(ctx, key, events, chain.CacheTTL); err != nil {
			m.log.Warn("cache set failed", logger.String("key", key), logger.Error(err))
		}
		return events, nil
	}
	return nil, exhausted(provider.CategoryEvents, lastErr)
}

// Exhaustion surfaces as missing data to the factor pipeline while still
// matching the availability sentinel for chain-level callers.
func exhausted(category string, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("%s chain exhausted: %w: %w (last: %v)", category, models.ErrInsufficientData, models.ErrProviderUnavailable, lastErr)
	}
	return fmt.Errorf("%s chain exhausted: %w: %w", category, models.ErrInsufficientData, models.ErrProviderUnavailable)
}
