package analytics

import (
	"context"
	"fmt"
	"time"

	"FxSignals/internal/domain/models"
	domsvc "FxSignals/internal/domain/service"
)

var relevanceWeights = map[models.Relevance]float64{
	models.RelevanceHigh:   1.0,
	models.RelevanceMedium: 0.6,
	models.RelevanceLow:    0.3,
}

// Geopolitical scores event tone weighted by relevance and recency.
type Geopolitical struct {
	maxAge time.Duration
}

func NewGeopolitical() *Geopolitical {
	return &Geopolitical{maxAge: 7 * 24 * time.Hour}
}

func (g *Geopolitical) Analyze(_ context.Context, pair models.Pair, events []models.GeoEvent) (models.FactorScore, error) {
	if len(events) == 0 {
		return models.FactorScore{}, fmt.Errorf("geopolitical %s: no events: %w", pair, models.ErrInsufficientData)
	}

	now := time.Now()
	var weighted, weightSum float64
	highCount := 0

	for _, ev := range events {
		rel := relevanceWeights[ev.Relevance]
		if rel == 0 {
			rel = relevanceWeights[models.RelevanceLow]
		}
		if ev.Relevance == models.RelevanceHigh {
			highCount++
		}

		// tone arrives on the GDELT scale, normalize to [-1, 1]
		tone := clamp(ev.Tone/10, -1, 1)
		w := rel * recencyWeight(now.Sub(ev.Timestamp), g.maxAge, 0.2)
		weighted += tone * w
		weightSum += w
	}

	if weightSum == 0 {
		return models.FactorScore{}, fmt.Errorf("geopolitical %s: no weighable events: %w", pair, models.ErrInsufficientData)
	}

	confidence := clamp(0.3+0.1*float64(highCount)+0.02*float64(len(events)), 0.1, 0.9)

	return models.FactorScore{
		Factor:     models.FactorGeopolitical,
		Score:      clamp(weighted/weightSum, -1, 1),
		Confidence: confidence,
		Details: map[string]float64{
			"events":         float64(len(events)),
			"high_relevance": float64(highCount),
		},
	}, nil
}

var _ domsvc.GeopoliticalAnalyzer = (*Geopolitical)(nil)
