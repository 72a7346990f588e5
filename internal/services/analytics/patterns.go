package analytics

import (
	"context"
	"fmt"
	"math"

	"FxSignals/internal/domain/models"
	domsvc "FxSignals/internal/domain/service"
)

// Pattern names reported in details.
const (
	PatternHammer           = "hammer"
	PatternShootingStar     = "shooting_star"
	PatternBullishEngulfing = "bullish_engulfing"
	PatternBearishEngulfing = "bearish_engulfing"
	PatternDoji             = "doji"
	PatternMorningStar      = "morning_star"
	PatternEveningStar      = "evening_star"
	PatternThreeSoldiers    = "three_white_soldiers"
	PatternThreeCrows       = "three_black_crows"
)

// detection scores per pattern, bullish positive
var patternScores = map[string]float64{
	PatternHammer:           0.6,
	PatternShootingStar:     -0.6,
	PatternBullishEngulfing: 0.7,
	PatternBearishEngulfing: -0.7,
	PatternDoji:             0,
	PatternMorningStar:      0.8,
	PatternEveningStar:      -0.8,
	PatternThreeSoldiers:    0.9,
	PatternThreeCrows:       -0.9,
}

// Patterns detects candlestick formations on the tail of a 4hour series.
type Patterns struct{}

func NewPatterns() *Patterns { return &Patterns{} }

func (p *Patterns) Analyze(_ context.Context, pair models.Pair, candles []models.Candle) (models.FactorScore, error) {
	if len(candles) < 3 {
		return models.FactorScore{}, fmt.Errorf("patterns %s: need at least 3 candles: %w", pair, models.ErrInsufficientData)
	}

	found := DetectPatterns(candles)
	details := make(map[string]float64, len(found))
	scores := make([]float64, 0, len(found))
	for _, name := range found {
		details[name] = patternScores[name]
		scores = append(scores, patternScores[name])
	}

	if len(found) == 0 {
		return models.FactorScore{
			Factor:     models.FactorPattern,
			Score:      0,
			Confidence: 0.3,
			Details:    details,
		}, nil
	}

	// multiple agreeing patterns raise confidence
	confidence := clamp(0.5+0.15*float64(len(found)), 0.5, 0.95)
	return models.FactorScore{
		Factor:     models.FactorPattern,
		Score:      clamp(mean(scores), -1, 1),
		Confidence: confidence,
		Details:    details,
	}, nil
}

// DetectPatterns inspects the last candles of the series and returns
// every formation present.
func DetectPatterns(candles []models.Candle) []string {
	var found []string
	n := len(candles)
	last := candles[n-1]

	if isHammer(last) {
		found = append(found, PatternHammer)
	}
	if isShootingStar(last) {
		found = append(found, PatternShootingStar)
	}
	if isDoji(last) {
		found = append(found, PatternDoji)
	}
	if n >= 2 {
		prev := candles[n-2]
		if isBullishEngulfing(prev, last) {
			found = append(found, PatternBullishEngulfing)
		}
		if isBearishEngulfing(prev, last) {
			found = append(found, PatternBearishEngulfing)
		}
	}
	if n >= 3 {
		a, b, c := candles[n-3], candles[n-2], candles[n-1]
		if isMorningStar(a, b, c) {
			found = append(found, PatternMorningStar)
		}
		if isEveningStar(a, b, c) {
			found = append(found, PatternEveningStar)
		}
		if isThreeWhiteSoldiers(a, b, c) {
			found = append(found, PatternThreeSoldiers)
		}
		if isThreeBlackCrows(a, b, c) {
			found = append(found, PatternThreeCrows)
		}
	}
	return found
}

func body(c models.Candle) float64 { return math.Abs(c.Close - c.Open) }

func candleRange(c models.Candle) float64 { return c.High - c.Low }

func bullish(c models.Candle) bool { return c.Close > c.Open }

func bearish(c models.Candle) bool { return c.Close < c.Open }

func lowerShadow(c models.Candle) float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

func upperShadow(c models.Candle) float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// isHammer: long lower shadow, tiny upper shadow, small body.
func isHammer(c models.Candle) bool {
	r := candleRange(c)
	if r == 0 {
		return false
	}
	return lowerShadow(c) > 2*body(c) &&
		upperShadow(c) < 0.1*r &&
		body(c) < 0.3*r
}

// isShootingStar is the inverted hammer after an advance.
func isShootingStar(c models.Candle) bool {
	r := candleRange(c)
	if r == 0 {
		return false
	}
	return upperShadow(c) > 2*body(c) &&
		lowerShadow(c) < 0.1*r &&
		body(c) < 0.3*r
}

func isDoji(c models.Candle) bool {
	r := candleRange(c)
	if r == 0 {
		return false
	}
	return body(c) < 0.1*r
}

// isBullishEngulfing: a bullish body that exceeds and wraps the prior
// bearish body by at least 10%.
func isBullishEngulfing(prev, cur models.Candle) bool {
	return bearish(prev) && bullish(cur) &&
		body(cur) > 1.1*body(prev) &&
		cur.Open <= prev.Close && cur.Close >= prev.Open
}

func isBearishEngulfing(prev, cur models.Candle) bool {
	return bullish(prev) && bearish(cur) &&
		body(cur) > 1.1*body(prev) &&
		cur.Open >= prev.Close && cur.Close <= prev.Open
}

// isMorningStar: long bearish, small-bodied star, bullish close above
// the midpoint of the first body.
func isMorningStar(a, b, c models.Candle) bool {
	if !bearish(a) || !bullish(c) {
		return false
	}
	if body(b) >= 0.5*body(a) {
		return false
	}
	mid := (a.Open + a.Close) / 2
	return c.Close > mid
}

func isEveningStar(a, b, c models.Candle) bool {
	if !bullish(a) || !bearish(c) {
		return false
	}
	if body(b) >= 0.5*body(a) {
		return false
	}
	mid := (a.Open + a.Close) / 2
	return c.Close < mid
}

// isThreeWhiteSoldiers: three consecutive bullish candles, each closing
// higher and opening within the prior body.
func isThreeWhiteSoldiers(a, b, c models.Candle) bool {
	if !bullish(a) || !bullish(b) || !bullish(c) {
		return false
	}
	return b.Close > a.Close && c.Close > b.Close &&
		b.Open > a.Open && b.Open < a.Close &&
		c.Open > b.Open && c.Open < b.Close
}

func isThreeBlackCrows(a, b, c models.Candle) bool {
	if !bearish(a) || !bearish(b) || !bearish(c) {
		return false
	}
	return b.Close < a.Close && c.Close < b.Close &&
		b.Open < a.Open && b.Open > a.Close &&
		c.Open < b.Open && c.Open > b.Close
}

var _ domsvc.PatternAnalyzer = (*Patterns)(nil)
