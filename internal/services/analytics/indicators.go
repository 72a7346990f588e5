package analytics

import (
	"math"

	"FxSignals/internal/domain/models"
)

// closes extracts the close series from candles.
func closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// CalculateSMA returns the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// CalculateEMA returns the full exponential moving average series,
// seeded with an SMA over the first period values.
func CalculateEMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	ema := seed / float64(period)
	out = append(out, ema)

	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
		out = append(out, ema)
	}
	return out
}

// CalculateRSI returns the latest RSI value using Wilder smoothing.
func CalculateRSI(values []float64, period int) float64 {
	if period <= 0 || len(values) <= period {
		return 50
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACDResult holds the latest MACD line, signal line, and histogram.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// CalculateMACD returns MACD(fast, slow, signal) for the series.
func CalculateMACD(values []float64, fast, slow, signal int) (MACDResult, bool) {
	if len(values) < slow+signal {
		return MACDResult{}, false
	}
	fastEMA := CalculateEMA(values, fast)
	slowEMA := CalculateEMA(values, slow)
	if fastEMA == nil || slowEMA == nil {
		return MACDResult{}, false
	}

	// align the tails of both EMA series
	n := len(slowEMA)
	fastTail := fastEMA[len(fastEMA)-n:]
	macdLine := make([]float64, n)
	for i := 0; i < n; i++ {
		macdLine[i] = fastTail[i] - slowEMA[i]
	}

	signalSeries := CalculateEMA(macdLine, signal)
	if signalSeries == nil {
		return MACDResult{}, false
	}

	m := macdLine[len(macdLine)-1]
	s := signalSeries[len(signalSeries)-1]
	return MACDResult{MACD: m, Signal: s, Histogram: m - s}, true
}

// BollingerResult holds the latest band values.
type BollingerResult struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// CalculateBollinger returns Bollinger bands over the last period values
// with the given standard-deviation multiplier.
func CalculateBollinger(values []float64, period int, mult float64) (BollingerResult, bool) {
	if period <= 1 || len(values) < period {
		return BollingerResult{}, false
	}
	window := values[len(values)-period:]
	mid := mean(window)
	sd := stddev(window)
	return BollingerResult{
		Upper:  mid + mult*sd,
		Middle: mid,
		Lower:  mid - mult*sd,
	}, true
}

// CalculateATR returns the latest average true range with Wilder smoothing.
func CalculateATR(candles []models.Candle, period int) float64 {
	if period <= 0 || len(candles) <= period {
		return 0
	}

	trs := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		h, l, pc := candles[i].High, candles[i].Low, candles[i-1].Close
		tr := h - l
		if d := math.Abs(h - pc); d > tr {
			tr = d
		}
		if d := math.Abs(l - pc); d > tr {
			tr = d
		}
		trs = append(trs, tr)
	}

	atr := 0.0
	for _, tr := range trs[:period] {
		atr += tr
	}
	atr /= float64(period)
	for _, tr := range trs[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr
}
