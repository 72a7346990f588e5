package analytics

import (
	"context"
	"errors"
	"math"
	"testing"

	"FxSignals/internal/domain/models"
)

func indicator(typ models.IndicatorType, value float64) models.EconomicIndicator {
	return models.EconomicIndicator{Type: typ, Value: value}
}

func TestEconomicStrongDifferential(t *testing.T) {
	base := []models.EconomicIndicator{
		indicator(models.IndInterestRate, 5.25),
		indicator(models.IndGDPGrowth, 3.2),
		indicator(models.IndUnemployment, 3.8),
	}
	quote := []models.EconomicIndicator{
		indicator(models.IndInterestRate, -0.1),
		indicator(models.IndGDPGrowth, -0.5),
	}
	e := NewEconomic()
	score, err := e.Analyze(context.Background(), testPair(t), base, quote)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if score.Factor != models.FactorEconomic {
		t.Fatalf("factor = %v, want economic", score.Factor)
	}
	if score.Score < 0.9 {
		t.Fatalf("score = %v, want strongly positive", score.Score)
	}
	// confidence averages weight coverage on both sides: 0.75 and 0.60
	if !almostEqual(score.Confidence, 0.675, 1e-9) {
		t.Fatalf("confidence = %v, want 0.675", score.Confidence)
	}
	if score.Details["base_strength"] <= score.Details["quote_strength"] {
		t.Fatalf("details = %v, want base stronger than quote", score.Details)
	}
}

func TestEconomicSingleIndicatorEachSide(t *testing.T) {
	base := []models.EconomicIndicator{indicator(models.IndInterestRate, 3.0)}
	quote := []models.EconomicIndicator{indicator(models.IndInterestRate, 0.5)}

	e := NewEconomic()
	score, err := e.Analyze(context.Background(), testPair(t), base, quote)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// strengths 0.6 and -0.2, differential 0.8
	want := math.Tanh(0.8 * 1.5)
	if !almostEqual(score.Score, want, 1e-9) {
		t.Fatalf("score = %v, want %v", score.Score, want)
	}
	if !almostEqual(score.Confidence, 0.35, 1e-9) {
		t.Fatalf("confidence = %v, want 0.35", score.Confidence)
	}
}

func TestEconomicNoIndicators(t *testing.T) {
	e := NewEconomic()
	_, err := e.Analyze(context.Background(), testPair(t), nil, nil)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestScoreInflationSteps(t *testing.T) {
	cases := []struct {
		pct  float64
		want float64
	}{
		{2.0, 0.6},
		{3.0, 0},
		{5.0, -0.5},
		{8.0, -1},
		{1.0, 0.2},
		{-0.5, -0.6},
	}
	for _, tc := range cases {
		if got := scoreInflation(tc.pct); got != tc.want {
			t.Fatalf("scoreInflation(%v) = %v, want %v", tc.pct, got, tc.want)
		}
	}
}

func TestScoreUnemploymentSteps(t *testing.T) {
	cases := []struct {
		pct  float64
		want float64
	}{
		{3.5, 0.8},
		{5.0, 0.3},
		{7.0, -0.3},
		{10.0, -0.8},
	}
	for _, tc := range cases {
		if got := scoreUnemployment(tc.pct); got != tc.want {
			t.Fatalf("scoreUnemployment(%v) = %v, want %v", tc.pct, got, tc.want)
		}
	}
}
