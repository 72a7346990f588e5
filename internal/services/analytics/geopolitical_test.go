package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
)

func event(tone float64, rel models.Relevance, age time.Duration) models.GeoEvent {
	return models.GeoEvent{
		Tone:      tone,
		Relevance: rel,
		Timestamp: time.Now().Add(-age),
	}
}

func TestGeopoliticalRelevanceWeighting(t *testing.T) {
	// a fresh high-relevance negative event dominates an equally fresh
	// low-relevance positive one
	events := []models.GeoEvent{
		event(-8, models.RelevanceHigh, time.Minute),
		event(6, models.RelevanceLow, time.Minute),
	}
	g := NewGeopolitical()
	score, err := g.Analyze(context.Background(), testPair(t), events)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if score.Factor != models.FactorGeopolitical {
		t.Fatalf("factor = %v, want geopolitical", score.Factor)
	}
	if score.Score >= 0 {
		t.Fatalf("score = %v, want negative", score.Score)
	}
	if !almostEqual(score.Confidence, 0.3+0.1+0.04, 1e-9) {
		t.Fatalf("confidence = %v, want 0.44", score.Confidence)
	}
	if score.Details["high_relevance"] != 1 {
		t.Fatalf("details = %v, want one high-relevance event", score.Details)
	}
}

func TestGeopoliticalUnknownRelevanceDefaultsLow(t *testing.T) {
	events := []models.GeoEvent{event(5, models.Relevance("breaking"), time.Minute)}
	g := NewGeopolitical()
	score, err := g.Analyze(context.Background(), testPair(t), events)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// tone normalizes by 10 regardless of the relevance bucket
	if !almostEqual(score.Score, 0.5, 1e-6) {
		t.Fatalf("score = %v, want 0.5", score.Score)
	}
}

func TestGeopoliticalToneClamped(t *testing.T) {
	events := []models.GeoEvent{event(25, models.RelevanceHigh, time.Minute)}
	g := NewGeopolitical()
	score, err := g.Analyze(context.Background(), testPair(t), events)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if score.Score != 1 {
		t.Fatalf("score = %v, want clamped to 1", score.Score)
	}
}

func TestGeopoliticalNoEvents(t *testing.T) {
	g := NewGeopolitical()
	_, err := g.Analyze(context.Background(), testPair(t), nil)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}
