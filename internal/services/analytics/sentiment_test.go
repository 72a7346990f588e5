package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
)

func article(title, source string, age time.Duration) models.NewsItem {
	return models.NewsItem{
		Title:       title,
		Source:      source,
		PublishedAt: time.Now().Add(-age),
	}
}

func TestSentimentSingleHawkishArticle(t *testing.T) {
	news := []models.NewsItem{article("Central bank turns hawkish", "reuters", time.Minute)}

	s := NewSentiment()
	score, err := s.Analyze(context.Background(), testPair(t), news)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// one hawkish hit scores 1.5 raw, then the full-agreement boost
	want := 1.2 * math.Tanh(1.5/3)
	if !almostEqual(score.Score, want, 1e-9) {
		t.Fatalf("score = %v, want %v", score.Score, want)
	}
	// diversity 0.2, volume 0.05, agreement 1
	if !almostEqual(score.Confidence, 0.395, 1e-9) {
		t.Fatalf("confidence = %v, want 0.395", score.Confidence)
	}
	if score.Details["lexicon_hits"] != 1 {
		t.Fatalf("details = %v, want one lexicon hit", score.Details)
	}
}

func TestSentimentBearishFlow(t *testing.T) {
	news := []models.NewsItem{
		article("Euro slumps toward record low", "reuters", time.Hour),
		article("ECB signals rate cut ahead", "bloomberg", 2*time.Hour),
		article("Outlook darkens as recession risk grows", "ft", 3*time.Hour),
	}

	s := NewSentiment()
	score, err := s.Analyze(context.Background(), testPair(t), news)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if score.Score >= 0 {
		t.Fatalf("score = %v, want negative", score.Score)
	}
	if score.Details["agreement"] != 1 {
		t.Fatalf("agreement = %v, want 1", score.Details["agreement"])
	}
	if score.Details["sources"] != 3 {
		t.Fatalf("sources = %v, want 3", score.Details["sources"])
	}
}

func TestSentimentNoNews(t *testing.T) {
	s := NewSentiment()
	_, err := s.Analyze(context.Background(), testPair(t), nil)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestScoreTextNegationFlip(t *testing.T) {
	raw, hits := scoreText("Central bank unlikely to raise rates")
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
	if !almostEqual(raw, -0.75, 1e-9) {
		t.Fatalf("raw = %v, want -0.75 after negation flip", raw)
	}
}

func TestRecencyWeight(t *testing.T) {
	maxAge := 48 * time.Hour
	if got := recencyWeight(0, maxAge, 0.2); got != 1 {
		t.Fatalf("weight at age zero = %v, want 1", got)
	}
	if got := recencyWeight(maxAge, maxAge, 0.2); got != 0.2 {
		t.Fatalf("weight at max age = %v, want floor", got)
	}
	if got := recencyWeight(24*time.Hour, maxAge, 0.2); !almostEqual(got, 0.6, 1e-9) {
		t.Fatalf("weight at half age = %v, want 0.6", got)
	}
}
