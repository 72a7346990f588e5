package service

import (
	"context"

	"FxSignals/internal/domain/models"
	"FxSignals/internal/domain/repository"
)

// TechnicalAnalyzer scores a pair from multi-timeframe candle series.
type TechnicalAnalyzer interface {
	Analyze(ctx context.Context, pair models.Pair, candles map[repository.Timeframe][]models.Candle) (models.FactorScore, error)
}

// PatternAnalyzer scores candlestick formations on a single series.
type PatternAnalyzer interface {
	Analyze(ctx context.Context, pair models.Pair, candles []models.Candle) (models.FactorScore, error)
}

// EconomicAnalyzer scores the macro differential between the two currencies.
type EconomicAnalyzer interface {
	Analyze(ctx context.Context, pair models.Pair, base, quote []models.EconomicIndicator) (models.FactorScore, error)
}

// SentimentAnalyzer scores news flow for a pair.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, pair models.Pair, news []models.NewsItem) (models.FactorScore, error)
}

// GeopoliticalAnalyzer scores event tone and relevance for a pair.
type GeopoliticalAnalyzer interface {
	Analyze(ctx context.Context, pair models.Pair, events []models.GeoEvent) (models.FactorScore, error)
}

// AchievementModel estimates the probability that a target is reached
// before the stop, given the weekly range and signal confidence.
type AchievementModel interface {
	Probability(targetPips, weeklyRangePips, confidence float64) float64
}
