package analytics

import (
	"context"
	"fmt"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	domsvc "FxSignals/internal/domain/service"
)

// timeframe contribution to the technical score
var timeframeWeights = map[drepo.Timeframe]float64{
	drepo.TF30m: 0.15,
	drepo.TF1h:  0.25,
	drepo.TF4h:  0.45,
	drepo.TF1d:  0.15,
}

const (
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerMult   = 2.0
	atrPeriod       = 14

	// minimum candles per timeframe for a usable reading
	minCandles = macdSlow + macdSignal
)

// Technical scores a pair from RSI, MACD, and Bollinger readings across
// multiple timeframes. Missing timeframes drop out and the remaining
// weights renormalize.
type Technical struct{}

func NewTechnical() *Technical { return &Technical{} }

func (t *Technical) Analyze(_ context.Context, pair models.Pair, candles map[drepo.Timeframe][]models.Candle) (models.FactorScore, error) {
	scores := make(map[string]float64)
	weights := make(map[string]float64)
	details := make(map[string]float64)
	agreement := make([]float64, 0, len(timeframeWeights))

	for tf, w := range timeframeWeights {
		series, ok := candles[tf]
		if !ok || len(series) < minCandles {
			continue
		}
		score, det := scoreTimeframe(series)
		key := string(tf)
		scores[key] = score
		weights[key] = w
		agreement = append(agreement, score)
		for k, v := range det {
			details[key+"_"+k] = v
		}
	}

	if len(scores) == 0 {
		return models.FactorScore{}, fmt.Errorf("technical %s: no timeframe has enough candles: %w", pair, models.ErrInsufficientData)
	}

	norm := renormalize(weights)
	total := 0.0
	for k, s := range scores {
		total += s * norm[k]
	}

	// confidence: coverage of timeframes discounted by indicator disagreement
	coverage := float64(len(scores)) / float64(len(timeframeWeights))
	confidence := clamp(coverage*(1-stddev(agreement)*0.5), 0.1, 1)

	return models.FactorScore{
		Factor:     models.FactorTechnical,
		Score:      clamp(total, -1, 1),
		Confidence: confidence,
		Details:    details,
	}, nil
}

// scoreTimeframe maps each indicator to [-1, 1] and averages them.
func scoreTimeframe(candles []models.Candle) (float64, map[string]float64) {
	cs := closes(candles)
	price := cs[len(cs)-1]
	subs := make([]float64, 0, 3)
	details := make(map[string]float64, 4)

	rsi := CalculateRSI(cs, rsiPeriod)
	details["rsi"] = rsi
	subs = append(subs, scoreRSI(rsi))

	if macd, ok := CalculateMACD(cs, macdFast, macdSlow, macdSignal); ok {
		details["macd_hist"] = macd.Histogram
		subs = append(subs, scoreMACD(macd, price))
	}

	if bb, ok := CalculateBollinger(cs, bollingerPeriod, bollingerMult); ok {
		details["bb_position"] = bbPosition(bb, price)
		subs = append(subs, scoreBollinger(bb, price))
	}

	details["atr"] = CalculateATR(candles, atrPeriod)
	return mean(subs), details
}

// scoreRSI treats oversold as a buy and overbought as a sell.
func scoreRSI(rsi float64) float64 {
	switch {
	case rsi <= 30:
		return clamp((30-rsi)/30+0.5, 0, 1)
	case rsi >= 70:
		return -clamp((rsi-70)/30+0.5, 0, 1)
	default:
		// mild lean within the neutral band
		return (50 - rsi) / 50 * 0.4
	}
}

// scoreMACD uses histogram sign and magnitude relative to price.
func scoreMACD(m MACDResult, price float64) float64 {
	if price == 0 {
		return 0
	}
	// histogram as basis points of price, saturating at 10bp
	bp := m.Histogram / price * 10000
	return clamp(bp/10, -1, 1)
}

// bbPosition maps price within the bands to [0, 1].
func bbPosition(bb BollingerResult, price float64) float64 {
	width := bb.Upper - bb.Lower
	if width == 0 {
		return 0.5
	}
	return clamp((price-bb.Lower)/width, 0, 1)
}

// scoreBollinger treats touches of the lower band as buy pressure and
// of the upper band as sell pressure.
func scoreBollinger(bb BollingerResult, price float64) float64 {
	pos := bbPosition(bb, price)
	return clamp((0.5-pos)*2, -1, 1)
}

var _ domsvc.TechnicalAnalyzer = (*Technical)(nil)
