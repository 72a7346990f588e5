package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"FxSignals/internal/domain/models"
)

// Validator cross-checks quotes from independent providers before a
// price is trusted for signal generation.
type Validator struct {
	minSources  int
	maxVariance float64 // max relative deviation from the median
}

func NewValidator(minSources int, maxVariance float64) *Validator {
	if minSources <= 0 {
		minSources = 3
	}
	if maxVariance <= 0 {
		maxVariance = 0.008
	}
	return &Validator{minSources: minSources, maxVariance: maxVariance}
}

// Validate excludes outliers against the median and returns the mean of
// the surviving quotes. Fewer raw quotes than minSources fails with
// ErrInsufficientData; losing quorum to exclusion fails with
// ErrPriceVariance.
func (v *Validator) Validate(pair models.Pair, quotes []models.Quote) (models.ValidatedPrice, error) {
	if len(quotes) < v.minSources {
		return models.ValidatedPrice{}, fmt.Errorf(
			"price validation %s: %d quotes, need %d: %w",
			pair, len(quotes), v.minSources, models.ErrInsufficientData)
	}

	med := medianPrice(quotes)
	if med == 0 {
		return models.ValidatedPrice{}, fmt.Errorf("price validation %s: zero median: %w", pair, models.ErrInsufficientData)
	}

	kept := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		if math.Abs(q.Price-med)/med <= v.maxVariance {
			kept = append(kept, q)
		}
	}
	excluded := len(quotes) - len(kept)

	if len(kept) < v.minSources {
		return models.ValidatedPrice{}, fmt.Errorf(
			"price validation %s: %d of %d quotes within %.2f%% of median, need %d: %w",
			pair, len(kept), len(quotes), v.maxVariance*100, v.minSources, models.ErrPriceVariance)
	}

	sum := 0.0
	for _, q := range kept {
		sum += q.Price
	}
	price := sum / float64(len(kept))

	variance := relativeSpread(kept, price)
	confidence := confidenceFor(variance, v.maxVariance, len(kept))

	return models.ValidatedPrice{
		Pair:       pair,
		Price:      price,
		Sources:    len(kept),
		Excluded:   excluded,
		Variance:   variance,
		Confidence: confidence,
		Quotes:     kept,
		Timestamp:  time.Now(),
	}, nil
}

func medianPrice(quotes []models.Quote) float64 {
	prices := make([]float64, len(quotes))
	for i, q := range quotes {
		prices[i] = q.Price
	}
	sort.Float64s(prices)
	n := len(prices)
	if n%2 == 1 {
		return prices[n/2]
	}
	return (prices[n/2-1] + prices[n/2]) / 2
}

// relativeSpread is the standard deviation of kept prices relative to
// the validated mean.
func relativeSpread(quotes []models.Quote, meanPrice float64) float64 {
	if meanPrice == 0 || len(quotes) < 2 {
		return 0
	}
	sum := 0.0
	for _, q := range quotes {
		d := q.Price - meanPrice
		sum += d * d
	}
	return math.Sqrt(sum/float64(len(quotes))) / meanPrice
}

// confidenceFor rises with source count and falls with residual spread.
func confidenceFor(variance, maxVariance float64, sources int) float64 {
	spreadTerm := 1.0
	if maxVariance > 0 {
		spreadTerm = 1 - math.Min(variance/maxVariance, 1)
	}
	sourceTerm := math.Min(float64(sources)/5, 1)
	c := 0.6*spreadTerm + 0.4*sourceTerm
	if c < 0.05 {
		c = 0.05
	}
	if c > 1 {
		c = 1
	}
	return c
}
