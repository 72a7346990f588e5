package analytics

import (
	"math"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCalculateSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if got := CalculateSMA(values, 5); got != 3 {
		t.Fatalf("SMA(5) = %v, want 3", got)
	}
	if got := CalculateSMA(values, 2); got != 4.5 {
		t.Fatalf("SMA(2) = %v, want 4.5", got)
	}
	if got := CalculateSMA(values, 10); got != 0 {
		t.Fatalf("SMA with short series = %v, want 0", got)
	}
}

func TestCalculateEMA(t *testing.T) {
	values := []float64{2, 4, 6, 8, 12, 14, 16, 18, 20}
	ema := CalculateEMA(values, 5)
	if ema == nil {
		t.Fatal("expected series")
	}
	// seed is SMA of first five values
	if !almostEqual(ema[0], 6.4, 1e-9) {
		t.Fatalf("EMA seed = %v, want 6.4", ema[0])
	}
	// next value applies k = 2/6
	want := 14*(2.0/6.0) + 6.4*(4.0/6.0)
	if !almostEqual(ema[1], want, 1e-9) {
		t.Fatalf("EMA[1] = %v, want %v", ema[1], want)
	}
	if len(ema) != len(values)-5+1 {
		t.Fatalf("EMA length = %d, want %d", len(ema), len(values)-5+1)
	}
}

func TestCalculateRSIExtremes(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 1.0 + float64(i)*0.01
		down[i] = 2.0 - float64(i)*0.01
	}
	if got := CalculateRSI(up, 14); got != 100 {
		t.Fatalf("RSI of pure uptrend = %v, want 100", got)
	}
	if got := CalculateRSI(down, 14); got > 1 {
		t.Fatalf("RSI of pure downtrend = %v, want near 0", got)
	}
	if got := CalculateRSI([]float64{1, 2}, 14); got != 50 {
		t.Fatalf("RSI of short series = %v, want neutral 50", got)
	}
}

func TestCalculateRSIBalanced(t *testing.T) {
	// alternating equal gains and losses settle near 50
	values := make([]float64, 60)
	for i := range values {
		values[i] = 1.10
		if i%2 == 1 {
			values[i] = 1.11
		}
	}
	got := CalculateRSI(values, 14)
	if got < 40 || got > 60 {
		t.Fatalf("RSI of alternating series = %v, want near 50", got)
	}
}

func TestCalculateMACDFlatSeries(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 1.2345
	}
	res, ok := CalculateMACD(values, 12, 26, 9)
	if !ok {
		t.Fatal("expected MACD result")
	}
	if !almostEqual(res.MACD, 0, 1e-12) || !almostEqual(res.Histogram, 0, 1e-12) {
		t.Fatalf("flat series MACD = %+v, want zeros", res)
	}
}

func TestCalculateMACDTrend(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 1.0 + float64(i)*0.005
	}
	res, ok := CalculateMACD(values, 12, 26, 9)
	if !ok {
		t.Fatal("expected MACD result")
	}
	if res.MACD <= 0 {
		t.Fatalf("uptrend MACD = %v, want positive", res.MACD)
	}
	if _, ok := CalculateMACD(values[:20], 12, 26, 9); ok {
		t.Fatal("expected failure on short series")
	}
}

func TestCalculateBollinger(t *testing.T) {
	flat := make([]float64, 25)
	for i := range flat {
		flat[i] = 1.5
	}
	res, ok := CalculateBollinger(flat, 20, 2)
	if !ok {
		t.Fatal("expected bands")
	}
	if res.Upper != 1.5 || res.Middle != 1.5 || res.Lower != 1.5 {
		t.Fatalf("flat series bands = %+v, want all 1.5", res)
	}

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	res, ok = CalculateBollinger(values, 8, 2)
	if !ok {
		t.Fatal("expected bands")
	}
	// mean 5, population stddev 2
	if !almostEqual(res.Middle, 5, 1e-9) || !almostEqual(res.Upper, 9, 1e-9) || !almostEqual(res.Lower, 1, 1e-9) {
		t.Fatalf("bands = %+v, want middle 5 upper 9 lower 1", res)
	}
}

func TestCalculateATRConstantRange(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 20)
	for i := range candles {
		candles[i] = models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Open:   1.10, High: 1.12, Low: 1.10, Close: 1.12,
		}
	}
	got := CalculateATR(candles, 14)
	if !almostEqual(got, 0.02, 1e-9) {
		t.Fatalf("ATR = %v, want 0.02", got)
	}
	if got := CalculateATR(candles[:5], 14); got != 0 {
		t.Fatalf("ATR of short series = %v, want 0", got)
	}
}
