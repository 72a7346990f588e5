package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/internal/provider"
	"FxSignals/internal/service/breaker"
	"FxSignals/internal/service/ratelimit"
	"FxSignals/internal/services/analytics"
	"FxSignals/internal/services/pricing"
	"FxSignals/pkg/cache"
	"FxSignals/pkg/config"
	"FxSignals/pkg/logger"

	"github.com/creasty/defaults"
)

type nopMetrics struct{}

func (nopMetrics) RecordProviderCall(string, string, string) {}
func (nopMetrics) RecordBreakerState(string, string)         {}
func (nopMetrics) RecordCacheResult(string, bool)            {}
func (nopMetrics) RecordSignal(string, string)               {}
func (nopMetrics) RecordLatency(string, float64)             {}
func (nopMetrics) RecordError(string)                        {}
func (nopMetrics) RecordLastPrice(string, float64)           {}

type fixedPriceProvider struct {
	name  string
	price float64
}

func (p *fixedPriceProvider) Name() string { return p.name }

func (p *fixedPriceProvider) CurrentPrice(_ context.Context, pair models.Pair) (models.Quote, error) {
	return models.Quote{Pair: pair, Price: p.price, Provider: p.name, Timestamp: time.Now()}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	if err := defaults.Set(cfg); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	return cfg
}

func emptyRegistry() *provider.Registry {
	return &provider.Registry{
		Prices:     make(map[string]drepo.PriceProvider),
		Candles:    make(map[string]drepo.CandleProvider),
		Indicators: make(map[string]drepo.IndicatorProvider),
		News:       make(map[string]drepo.NewsProvider),
		Events:     make(map[string]drepo.EventProvider),
	}
}

func newTestGenerator(t *testing.T, registry *provider.Registry) *SignalGenerator {
	t.Helper()
	cfg := testConfig(t)
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cacheSvc := cache.NewMemoryCache()
	market := NewMarketData(cfg, registry,
		ratelimit.New(nil),
		breaker.NewRegistry(breaker.Config{}, nil),
		cacheSvc,
		pricing.NewValidator(cfg.Validation.MinSources, cfg.Validation.MaxVariance),
		log)
	g := NewSignalGenerator(cfg, market,
		analytics.NewTechnical(),
		analytics.NewPatterns(),
		analytics.NewEconomic(),
		analytics.NewSentiment(),
		analytics.NewGeopolitical(),
		analytics.NewStepAchievementModel(),
		cacheSvc, nil, nopMetrics{}, log)
	return g
}

func factor(name string, score, conf float64) models.FactorScore {
	return models.FactorScore{Factor: name, Score: score, Confidence: conf}
}

func TestComposeAllFactors(t *testing.T) {
	g := newTestGenerator(t, emptyRegistry())
	vp := models.ValidatedPrice{Pair: "EURUSD", Price: 1.1050, Sources: 3}

	factors := []models.FactorScore{
		factor(models.FactorTechnical, 0.6, 1),
		factor(models.FactorEconomic, -0.1, 1),
		factor(models.FactorSentiment, 0.2, 1),
		factor(models.FactorGeopolitical, 0.0, 1),
		factor(models.FactorPattern, 0.3, 1),
	}
	sig := g.compose(context.Background(), "EURUSD", vp, factors)

	if math.Abs(sig.Score-0.255) > 1e-9 {
		t.Fatalf("score = %v, want 0.255", sig.Score)
	}
	if sig.Direction != models.DirectionBuy {
		t.Fatalf("direction = %s, want BUY", sig.Direction)
	}
	if sig.Strength != models.StrengthWeak {
		t.Fatalf("strength = %s, want weak", sig.Strength)
	}
	if sig.Coverage != 1.0 {
		t.Fatalf("coverage = %v, want 1.0", sig.Coverage)
	}
	if sig.Target.LessThanOrEqual(sig.Entry) {
		t.Fatalf("target %s should be above entry %s for BUY", sig.Target, sig.Entry)
	}
	if sig.StopLoss.GreaterThanOrEqual(sig.Entry) {
		t.Fatalf("stop %s should be below entry %s for BUY", sig.StopLoss, sig.Entry)
	}
	if sig.TargetPips < g.cfg.Analysis.MinTargetPips || sig.TargetPips > g.cfg.Analysis.MaxTargetPips {
		t.Fatalf("target pips %v outside [%v, %v]", sig.TargetPips, g.cfg.Analysis.MinTargetPips, g.cfg.Analysis.MaxTargetPips)
	}
	if sig.RiskReward != 2.0 {
		t.Fatalf("risk reward = %v, want 2.0", sig.RiskReward)
	}
	if sig.AchieveProb <= 0 || sig.AchieveProb > 1 {
		t.Fatalf("achieve prob %v out of range", sig.AchieveProb)
	}
}

func TestComposeCoverageFloor(t *testing.T) {
	g := newTestGenerator(t, emptyRegistry())
	vp := models.ValidatedPrice{Pair: "EURUSD", Price: 1.1050, Sources: 3}

	// sentiment + geopolitical + pattern cover only 0.40 of base weight
	factors := []models.FactorScore{
		factor(models.FactorSentiment, 0.9, 1),
		factor(models.FactorGeopolitical, 0.9, 1),
		factor(models.FactorPattern, 0.9, 1),
	}
	sig := g.compose(context.Background(), "EURUSD", vp, factors)

	if sig.Direction != models.DirectionHold {
		t.Fatalf("direction = %s, want HOLD below coverage floor", sig.Direction)
	}
	if sig.Reason != "insufficient factor coverage" {
		t.Fatalf("unexpected reason %q", sig.Reason)
	}
	if sig.Actionable() {
		t.Fatal("HOLD signal must not be actionable")
	}
}

func TestComposeConfidenceWeighting(t *testing.T) {
	g := newTestGenerator(t, emptyRegistry())
	vp := models.ValidatedPrice{Pair: "EURUSD", Price: 1.1050, Sources: 3}

	// technical at half confidence, economic at full; effective weights
	// 0.175 and 0.25 renormalize so economic dominates
	factors := []models.FactorScore{
		factor(models.FactorTechnical, 1.0, 0.5),
		factor(models.FactorEconomic, 0.0, 1.0),
	}
	sig := g.compose(context.Background(), "EURUSD", vp, factors)

	want := (1.0 * 0.35 * 0.5) / (0.35*0.5 + 0.25*1.0)
	if math.Abs(sig.Score-want) > 1e-9 {
		t.Fatalf("score = %v, want %v", sig.Score, want)
	}
}

func TestComposeStrongSell(t *testing.T) {
	g := newTestGenerator(t, emptyRegistry())
	vp := models.ValidatedPrice{Pair: "USDJPY", Price: 155.20, Sources: 4}

	factors := []models.FactorScore{
		factor(models.FactorTechnical, -0.8, 0.9),
		factor(models.FactorEconomic, -0.6, 0.8),
		factor(models.FactorSentiment, -0.7, 0.7),
	}
	sig := g.compose(context.Background(), "USDJPY", vp, factors)

	if sig.Direction != models.DirectionSell {
		t.Fatalf("direction = %s, want SELL", sig.Direction)
	}
	if sig.Strength != models.StrengthStrong {
		t.Fatalf("strength = %s, want strong", sig.Strength)
	}
	if sig.Target.GreaterThanOrEqual(sig.Entry) {
		t.Fatalf("target %s should be below entry %s for SELL", sig.Target, sig.Entry)
	}
	if sig.StopLoss.LessThanOrEqual(sig.Entry) {
		t.Fatalf("stop %s should be above entry %s for SELL", sig.StopLoss, sig.Entry)
	}
}

type ctxErrCandleProvider struct {
	name   string
	gotErr error
}

func (p *ctxErrCandleProvider) Name() string { return p.name }

func (p *ctxErrCandleProvider) Candles(ctx context.Context, _ models.Pair, _ drepo.Timeframe, _ int) ([]models.Candle, error) {
	p.gotErr = ctx.Err()
	return nil, models.ErrProviderUnavailable
}

func TestWeeklyRangeUsesRequestContext(t *testing.T) {
	reg := emptyRegistry()
	daily := &ctxErrCandleProvider{name: "daily"}
	reg.Candles["daily"] = daily
	g := newTestGenerator(t, reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sig := &models.Signal{Pair: "EURUSD", Direction: models.DirectionBuy, Score: 0.4}
	g.price(ctx, sig, models.ValidatedPrice{Pair: "EURUSD", Price: 1.1050})

	if daily.gotErr == nil {
		t.Fatal("daily candle fetch should observe the canceled request context")
	}
	// the estimate fallback still prices the signal
	if sig.TargetPips < g.cfg.Analysis.MinTargetPips || sig.TargetPips > g.cfg.Analysis.MaxTargetPips {
		t.Fatalf("target pips %v outside [%v, %v]", sig.TargetPips, g.cfg.Analysis.MinTargetPips, g.cfg.Analysis.MaxTargetPips)
	}
}

func TestGenerateCachedIdempotence(t *testing.T) {
	reg := emptyRegistry()
	reg.Prices["a"] = &fixedPriceProvider{name: "a", price: 1.1050}
	reg.Prices["b"] = &fixedPriceProvider{name: "b", price: 1.1052}
	reg.Prices["c"] = &fixedPriceProvider{name: "c", price: 1.1049}
	g := newTestGenerator(t, reg)

	ctx := context.Background()
	first, err := g.Generate(ctx, "EURUSD", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	later := first.GeneratedAt.Add(3 * time.Minute)
	g.now = func() time.Time { return later }

	second, err := g.Generate(ctx, "EURUSD", false)
	if err != nil {
		t.Fatalf("generate cached: %v", err)
	}
	if !second.GeneratedAt.Equal(later) {
		t.Fatalf("cached GeneratedAt = %v, want %v", second.GeneratedAt, later)
	}
	if second.Direction != first.Direction || second.Score != first.Score ||
		second.Confidence != first.Confidence || second.Coverage != first.Coverage {
		t.Fatal("cached signal fields must match the original")
	}
	if !second.Entry.Equal(first.Entry) || !second.Target.Equal(first.Target) {
		t.Fatal("cached signal prices must match the original")
	}
}

func TestGenerateHoldWithoutFactors(t *testing.T) {
	reg := emptyRegistry()
	reg.Prices["a"] = &fixedPriceProvider{name: "a", price: 1.1050}
	reg.Prices["b"] = &fixedPriceProvider{name: "b", price: 1.1052}
	reg.Prices["c"] = &fixedPriceProvider{name: "c", price: 1.1049}
	g := newTestGenerator(t, reg)

	sig, err := g.Generate(context.Background(), "EURUSD", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sig.Direction != models.DirectionHold {
		t.Fatalf("direction = %s, want HOLD with no factor data", sig.Direction)
	}
	if sig.PriceSources != 3 {
		t.Fatalf("price sources = %d, want 3", sig.PriceSources)
	}
}
