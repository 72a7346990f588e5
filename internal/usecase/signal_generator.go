package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	domsvc "FxSignals/internal/domain/service"
	"FxSignals/pkg/cache"
	"FxSignals/pkg/config"
	"FxSignals/pkg/logger"

	"github.com/shopspring/decimal"
)

// Weights configures factor contributions to the composite score.
type Weights struct {
	Technical    float64
	Economic     float64
	Sentiment    float64
	Geopolitical float64
	Pattern      float64
}

func (w Weights) toMap() map[string]float64 {
	return map[string]float64{
		models.FactorTechnical:    w.Technical,
		models.FactorEconomic:     w.Economic,
		models.FactorSentiment:    w.Sentiment,
		models.FactorGeopolitical: w.Geopolitical,
		models.FactorPattern:      w.Pattern,
	}
}

// SignalGenerator combines factor analyzers into one composite signal
// per pair. Generated signals are cached; inside the TTL repeated calls
// return the same decision with a fresh GeneratedAt only.
type SignalGenerator struct {
	cfg    *config.Config
	market *MarketData

	technical    domsvc.TechnicalAnalyzer
	pattern      domsvc.PatternAnalyzer
	economic     domsvc.EconomicAnalyzer
	sentiment    domsvc.SentimentAnalyzer
	geopolitical domsvc.GeopoliticalAnalyzer
	achievement  domsvc.AchievementModel

	cache     cache.Service
	publisher drepo.SignalPublisher
	metrics   drepo.Metrics
	log       *logger.Logger
	now       func() time.Time
}

func NewSignalGenerator(
	cfg *config.Config,
	market *MarketData,
	technical domsvc.TechnicalAnalyzer,
	pattern domsvc.PatternAnalyzer,
	economic domsvc.EconomicAnalyzer,
	sentiment domsvc.SentimentAnalyzer,
	geopolitical domsvc.GeopoliticalAnalyzer,
	achievement domsvc.AchievementModel,
	cacheSvc cache.Service,
	publisher drepo.SignalPublisher,
	metrics drepo.Metrics,
	log *logger.Logger,
) *SignalGenerator {
	return &SignalGenerator{
		cfg:          cfg,
		market:       market,
		technical:    technical,
		pattern:      pattern,
		economic:     economic,
		sentiment:    sentiment,
		geopolitical: geopolitical,
		achievement:  achievement,
		cache:        cacheSvc,
		publisher:    publisher,
		metrics:      metrics,
		log:          log,
		now:          time.Now,
	}
}

// Generate produces a signal for the pair, serving a cached one when
// available unless refresh forces recomputation.
func (g *SignalGenerator) Generate(ctx context.Context, pair models.Pair, refresh bool) (*models.Signal, error) {
	key := cache.GenerateKeyWithParams("signal", pair.String())
	if !refresh {
		var cached models.Signal
		if err := g.cache.Get(ctx, key, &cached); err == nil {
			cached.GeneratedAt = g.now()
			return &cached, nil
		}
	}

	start := g.now()
	vp, err := g.market.ValidatedPrice(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", pair, err)
	}

	factors := g.collectFactors(ctx, pair)
	sig := g.compose(ctx, pair, vp, factors)
	sig.GeneratedAt = g.now()

	if err := g.cache.Set(ctx, key, sig, g.cfg.Analysis.SignalTTL); err != nil {
		g.log.Warn("signal cache set failed", logger.String("pair", pair.String()), logger.Error(err))
	}

	g.metrics.RecordSignal(pair.String(), string(sig.Direction))
	g.metrics.RecordLatency("generate_signal", g.now().Sub(start).Seconds())

	if g.publisher != nil && sig.Actionable() {
		if err := g.publisher.PublishSignal(ctx, sig); err != nil {
			g.log.Warn("signal publish failed", logger.String("pair", pair.String()), logger.Error(err))
		}
	}

	g.log.Info("signal generated",
		logger.String("pair", pair.String()),
		logger.String("direction", string(sig.Direction)),
		logger.Any("score", sig.Score),
		logger.Any("confidence", sig.Confidence))
	return sig, nil
}

// collectFactors runs all analyzers; each missing factor is logged and
// dropped rather than failing the signal.
func (g *SignalGenerator) collectFactors(ctx context.Context, pair models.Pair) []models.FactorScore {
	factors := make([]models.FactorScore, 0, 5)
	count := g.cfg.Analysis.CandleCount
	if count <= 0 {
		count = 100
	}

	candles := g.market.CandlesAll(ctx, pair, count)
	if len(candles) > 0 {
		if fs, err := g.technical.Analyze(ctx, pair, candles); err == nil {
			factors = append(factors, fs)
		} else {
			g.logFactorMiss(pair, models.FactorTechnical, err)
		}
		if fourHour, ok := candles[drepo.TF4h]; ok {
			if fs, err := g.pattern.Analyze(ctx, pair, fourHour); err == nil {
				factors = append(factors, fs)
			} else {
				g.logFactorMiss(pair, models.FactorPattern, err)
			}
		}
	}

	baseInds, errB := g.market.Indicators(ctx, pair.Base())
	quoteInds, errQ := g.market.Indicators(ctx, pair.Quote())
	if errB == nil || errQ == nil {
		if fs, err := g.economic.Analyze(ctx, pair, baseInds, quoteInds); err == nil {
			factors = append(factors, fs)
		} else {
			g.logFactorMiss(pair, models.FactorEconomic, err)
		}
	} else {
		g.logFactorMiss(pair, models.FactorEconomic, errB)
	}

	if news, err := g.market.News(ctx, pair); err == nil {
		if fs, err := g.sentiment.Analyze(ctx, pair, news); err == nil {
			factors = append(factors, fs)
		} else {
			g.logFactorMiss(pair, models.FactorSentiment, err)
		}
	} else {
		g.logFactorMiss(pair, models.FactorSentiment, err)
	}

	if events, err := g.market.Events(ctx, pair); err == nil {
		if fs, err := g.geopolitical.Analyze(ctx, pair, events); err == nil {
			factors = append(factors, fs)
		} else {
			g.logFactorMiss(pair, models.FactorGeopolitical, err)
		}
	} else {
		g.logFactorMiss(pair, models.FactorGeopolitical, err)
	}

	return factors
}

func (g *SignalGenerator) logFactorMiss(pair models.Pair, factor string, err error) {
	g.log.Debug("factor unavailable",
		logger.String("pair", pair.String()),
		logger.String("factor", factor),
		logger.Error(err))
}

// compose folds factor scores into the final decision.
func (g *SignalGenerator) compose(ctx context.Context, pair models.Pair, vp models.ValidatedPrice, factors []models.FactorScore) *models.Signal {
	weights := Weights{
		Technical:    g.cfg.Analysis.Weights.Technical,
		Economic:     g.cfg.Analysis.Weights.Economic,
		Sentiment:    g.cfg.Analysis.Weights.Sentiment,
		Geopolitical: g.cfg.Analysis.Weights.Geopolitical,
		Pattern:      g.cfg.Analysis.Weights.Pattern,
	}.toMap()

	sig := &models.Signal{
		Pair:          pair,
		Factors:       factors,
		PriceSources:  vp.Sources,
		PriceVariance: vp.Variance,
	}

	// coverage is the base-weight share of the factors that delivered
	coverage := 0.0
	for _, fs := range factors {
		coverage += weights[fs.Factor]
	}
	sig.Coverage = coverage

	if coverage < g.cfg.Analysis.CoverageFloor {
		sig.Direction = models.DirectionHold
		sig.Reason = "insufficient factor coverage"
		return sig
	}

	// effective weight scales by confidence, then renormalizes so the
	// present factors carry proportionally redistributed weight
	total, weightSum, confSum := 0.0, 0.0, 0.0
	scores := make([]float64, 0, len(factors))
	for _, fs := range factors {
		ew := weights[fs.Factor] * fs.Confidence
		total += fs.Score * ew
		weightSum += ew
		confSum += fs.Confidence
		scores = append(scores, fs.Score)
	}
	if weightSum == 0 {
		sig.Direction = models.DirectionHold
		sig.Reason = "zero effective weight"
		return sig
	}
	score := total / weightSum
	sig.Score = score

	// confidence: mean factor confidence plus a consistency bonus
	avgConf := confSum / float64(len(factors))
	bonus := (1 - stddevOf(scores)) * 0.2
	if bonus < 0 {
		bonus = 0
	}
	sig.Confidence = math.Min(avgConf+bonus, 1)

	abs := math.Abs(score)
	switch {
	case abs < g.cfg.Analysis.WeakThreshold:
		sig.Direction = models.DirectionHold
		sig.Reason = "composite score inside neutral band"
		return sig
	case abs < g.cfg.Analysis.StrongThreshold:
		sig.Strength = models.StrengthWeak
	default:
		sig.Strength = models.StrengthStrong
	}
	if score > 0 {
		sig.Direction = models.DirectionBuy
	} else {
		sig.Direction = models.DirectionSell
	}

	g.price(ctx, sig, vp)
	return sig
}

// price fills entry, target, stop, and achievement probability.
func (g *SignalGenerator) price(ctx context.Context, sig *models.Signal, vp models.ValidatedPrice) {
	pair := sig.Pair
	pip := pair.PipSize()
	entry := decimal.NewFromFloat(vp.Price)
	sig.Entry = entry

	awrPips := g.weeklyRangePips(ctx, pair, vp.Price)

	// scale target by signal strength and session volatility, then
	// bound it to the configured pip window
	strengthScale := 0.5 + math.Abs(sig.Score)*0.5
	target := awrPips * 0.4 * strengthScale * sessionMultiplier(g.now().UTC())
	target = math.Max(g.cfg.Analysis.MinTargetPips, math.Min(g.cfg.Analysis.MaxTargetPips, target))
	sig.TargetPips = math.Round(target)

	move := pip.Mul(decimal.NewFromFloat(sig.TargetPips))
	rr := g.cfg.Analysis.MinRiskReward
	if rr <= 0 {
		rr = 2
	}
	stopMove := move.Div(decimal.NewFromFloat(rr))

	if sig.Direction == models.DirectionBuy {
		sig.Target = entry.Add(move)
		sig.StopLoss = entry.Sub(stopMove)
	} else {
		sig.Target = entry.Sub(move)
		sig.StopLoss = entry.Add(stopMove)
	}
	sig.RiskReward = rr

	sig.AchieveProb = g.achievement.Probability(sig.TargetPips, awrPips, sig.Confidence)
}

// weeklyRangePips computes the average weekly range from daily candles:
// the mean high-low span over 7-day chunks, expressed in pips.
func (g *SignalGenerator) weeklyRangePips(ctx context.Context, pair models.Pair, price float64) float64 {
	daily, err := g.market.Candles(ctx, pair, drepo.TF1d, 28)
	pipF, _ := pair.PipSize().Float64()
	if err != nil || len(daily) < 7 {
		// fall back to one percent of price as a weekly range estimate
		return price * 0.01 / pipF
	}

	var ranges []float64
	for i := 0; i+7 <= len(daily); i += 7 {
		hi, lo := daily[i].High, daily[i].Low
		for _, c := range daily[i : i+7] {
			if c.High > hi {
				hi = c.High
			}
			if c.Low < lo {
				lo = c.Low
			}
		}
		ranges = append(ranges, hi-lo)
	}

	sum := 0.0
	for _, r := range ranges {
		sum += r
	}
	return sum / float64(len(ranges)) / pipF
}

func stddevOf(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := 0.0
	for _, x := range xs {
		m += x
	}
	m /= float64(len(xs))
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
