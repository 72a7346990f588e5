package analytics

import (
	"context"
	"fmt"
	"math"

	"FxSignals/internal/domain/models"
	domsvc "FxSignals/internal/domain/service"
)

// indicator contribution to a currency's strength score
var indicatorWeights = map[models.IndicatorType]float64{
	models.IndInterestRate: 0.35,
	models.IndGDPGrowth:    0.25,
	models.IndInflation:    0.20,
	models.IndUnemployment: 0.15,
	models.IndTradeBalance: 0.05,
}

// Economic scores the macro differential between the two sides of a
// pair. Each currency gets a strength score from step tables, the
// factor score is the tanh-normalized base-minus-quote differential.
type Economic struct{}

func NewEconomic() *Economic { return &Economic{} }

func (e *Economic) Analyze(_ context.Context, pair models.Pair, base, quote []models.EconomicIndicator) (models.FactorScore, error) {
	if len(base) == 0 && len(quote) == 0 {
		return models.FactorScore{}, fmt.Errorf("economic %s: no indicators for either currency: %w", pair, models.ErrInsufficientData)
	}

	baseStrength, baseCov := currencyStrength(base)
	quoteStrength, quoteCov := currencyStrength(quote)

	diff := baseStrength - quoteStrength
	score := math.Tanh(diff * 1.5)

	details := map[string]float64{
		"base_strength":  baseStrength,
		"quote_strength": quoteStrength,
		"differential":   diff,
	}

	// coverage of the weighted indicator set on both sides
	confidence := clamp((baseCov+quoteCov)/2, 0.1, 1)

	return models.FactorScore{
		Factor:     models.FactorEconomic,
		Score:      clamp(score, -1, 1),
		Confidence: confidence,
		Details:    details,
	}, nil
}

// currencyStrength folds the available indicators into one score in
// [-1, 1] and reports weight coverage.
func currencyStrength(inds []models.EconomicIndicator) (float64, float64) {
	if len(inds) == 0 {
		return 0, 0
	}
	total, covered := 0.0, 0.0
	for _, ind := range inds {
		w, ok := indicatorWeights[ind.Type]
		if !ok {
			continue
		}
		total += scoreIndicator(ind) * w
		covered += w
	}
	if covered == 0 {
		return 0, 0
	}
	return total / covered, covered
}

// scoreIndicator maps one reading to [-1, 1] via step tables.
func scoreIndicator(ind models.EconomicIndicator) float64 {
	switch ind.Type {
	case models.IndInterestRate:
		return scoreInterestRate(ind.Value)
	case models.IndGDPGrowth:
		return scoreGDPGrowth(ind.Value)
	case models.IndInflation:
		return scoreInflation(ind.Value)
	case models.IndUnemployment:
		return scoreUnemployment(ind.Value)
	case models.IndTradeBalance:
		if ind.Value > 0 {
			return 0.5
		}
		return -0.5
	default:
		return 0
	}
}

// Higher rates attract carry flows.
func scoreInterestRate(pct float64) float64 {
	switch {
	case pct >= 5:
		return 1
	case pct >= 3:
		return 0.6
	case pct >= 1.5:
		return 0.2
	case pct >= 0:
		return -0.2
	default:
		return -0.8
	}
}

func scoreGDPGrowth(pct float64) float64 {
	switch {
	case pct >= 3:
		return 1
	case pct >= 2:
		return 0.6
	case pct >= 1:
		return 0.2
	case pct >= 0:
		return -0.2
	default:
		return -1
	}
}

// Inflation near the 2% target is healthy; both runaway prices and
// deflation weaken a currency.
func scoreInflation(pct float64) float64 {
	switch {
	case pct >= 1.5 && pct <= 2.5:
		return 0.6
	case pct > 2.5 && pct <= 4:
		return 0
	case pct > 4 && pct <= 6:
		return -0.5
	case pct > 6:
		return -1
	case pct >= 0.5:
		return 0.2
	default:
		return -0.6
	}
}

func scoreUnemployment(pct float64) float64 {
	switch {
	case pct <= 4:
		return 0.8
	case pct <= 6:
		return 0.3
	case pct <= 8:
		return -0.3
	default:
		return -0.8
	}
}

var _ domsvc.EconomicAnalyzer = (*Economic)(nil)
