package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"FxSignals/internal/domain/models"
	domsvc "FxSignals/internal/domain/service"
)

// Sentiment scores news flow with the keyword lexicons. Articles decay
// by age; a secondary pass over the aggregate wording adjusts intensity.
type Sentiment struct {
	maxAge time.Duration
}

func NewSentiment() *Sentiment {
	return &Sentiment{maxAge: 48 * time.Hour}
}

func (s *Sentiment) Analyze(_ context.Context, pair models.Pair, news []models.NewsItem) (models.FactorScore, error) {
	if len(news) == 0 {
		return models.FactorScore{}, fmt.Errorf("sentiment %s: no news: %w", pair, models.ErrInsufficientData)
	}

	now := time.Now()
	var weighted, weightSum float64
	perArticle := make([]float64, 0, len(news))
	sources := make(map[string]bool)
	totalHits := 0

	for _, item := range news {
		raw, hits := scoreText(item.Title + " " + item.Summary)
		totalHits += hits
		// squeeze raw counts into [-1, 1]
		score := math.Tanh(raw / 3)
		perArticle = append(perArticle, score)
		sources[item.Source] = true

		w := recencyWeight(now.Sub(item.PublishedAt), s.maxAge, 0.2)
		weighted += score * w
		weightSum += w
	}

	if weightSum == 0 {
		return models.FactorScore{}, fmt.Errorf("sentiment %s: no scorable news: %w", pair, models.ErrInsufficientData)
	}
	aggregate := weighted / weightSum

	// secondary pass: when many articles agree in direction, intensify
	agreeing := 0
	for _, sc := range perArticle {
		if (sc > 0) == (aggregate > 0) && sc != 0 {
			agreeing++
		}
	}
	agreeRatio := float64(agreeing) / float64(len(perArticle))
	if agreeRatio > 0.7 {
		aggregate *= 1.2
	}

	diversity := clamp(float64(len(sources))/5, 0, 1)
	volume := clamp(float64(len(news))/20, 0, 1)
	confidence := clamp(diversity*0.4+volume*0.3+agreeRatio*0.3, 0.1, 1)

	return models.FactorScore{
		Factor:     models.FactorSentiment,
		Score:      clamp(aggregate, -1, 1),
		Confidence: confidence,
		Details: map[string]float64{
			"articles":     float64(len(news)),
			"sources":      float64(len(sources)),
			"lexicon_hits": float64(totalHits),
			"agreement":    agreeRatio,
		},
	}, nil
}

var _ domsvc.SentimentAnalyzer = (*Sentiment)(nil)
