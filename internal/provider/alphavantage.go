package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/config"
)

// AlphaVantageClient adapts the Alpha Vantage FX endpoints as a fallback
// candle source. Intraday resolution tops out at 60min, so 4hour series
// are aggregated client-side.
type AlphaVantageClient struct {
	base *HTTPProviderBase
}

func NewAlphaVantage(cfg config.ProviderConfig) *AlphaVantageClient {
	return &AlphaVantageClient{base: NewHTTPProviderBase(cfg)}
}

func (c *AlphaVantageClient) Name() string { return c.base.Name() }

type avBar struct {
	Open  string `json:"1. open"`
	High  string `json:"2. high"`
	Low   string `json:"3. low"`
	Close string `json:"4. close"`
}

type avIntradayResponse struct {
	Note   string           `json:"Note"`
	Error  string           `json:"Error Message"`
	Series map[string]avBar `json:"Time Series FX (30min)"`
	S60    map[string]avBar `json:"Time Series FX (60min)"`
	Daily  map[string]avBar `json:"Time Series FX (Daily)"`
}

func (c *AlphaVantageClient) Candles(ctx context.Context, pair models.Pair, tf drepo.Timeframe, count int) ([]models.Candle, error) {
	query := map[string][]string{
		"from_symbol": {pair.Base()},
		"to_symbol":   {pair.Quote()},
		"apikey":      {c.base.apiKey},
		"outputsize":  {"compact"},
	}
	aggregate := 1
	switch tf {
	case drepo.TF30m:
		query["function"] = []string{"FX_INTRADAY"}
		query["interval"] = []string{"30min"}
	case drepo.TF1h:
		query["function"] = []string{"FX_INTRADAY"}
		query["interval"] = []string{"60min"}
	case drepo.TF4h:
		query["function"] = []string{"FX_INTRADAY"}
		query["interval"] = []string{"60min"}
		aggregate = 4
	case drepo.TF1d:
		query["function"] = []string{"FX_DAILY"}
	default:
		return nil, fmt.Errorf("%s: unsupported timeframe %s: %w", c.Name(), tf, models.ErrConfiguration)
	}

	var resp avIntradayResponse
	if err := c.base.GetJSON(ctx, "/query", query, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s: %s: %w", c.Name(), resp.Error, models.ErrProviderUnavailable)
	}
	if resp.Note != "" {
		return nil, fmt.Errorf("%s: throttled by upstream: %w", c.Name(), models.ErrRateLimited)
	}

	series := resp.Series
	if len(series) == 0 {
		series = resp.S60
	}
	if len(series) == 0 {
		series = resp.Daily
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%s: empty series for %s %s: %w", c.Name(), pair, tf, models.ErrInsufficientData)
	}

	candles := make([]models.Candle, 0, len(series))
	for ts, bar := range series {
		cd, err := avParseBar(pair, ts, bar)
		if err != nil {
			continue
		}
		candles = append(candles, cd)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Bucket.Before(candles[j].Bucket) })

	if aggregate > 1 {
		candles = aggregateCandles(candles, aggregate)
	}
	if len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%s: no parseable candles for %s: %w", c.Name(), pair, models.ErrInsufficientData)
	}
	return candles, nil
}

func avParseBar(pair models.Pair, ts string, bar avBar) (models.Candle, error) {
	bucket, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		bucket, err = time.Parse("2006-01-02", ts)
		if err != nil {
			return models.Candle{}, err
		}
	}
	o, err1 := strconv.ParseFloat(bar.Open, 64)
	h, err2 := strconv.ParseFloat(bar.High, 64)
	l, err3 := strconv.ParseFloat(bar.Low, 64)
	cl, err4 := strconv.ParseFloat(bar.Close, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return models.Candle{}, fmt.Errorf("bad ohlc values")
	}
	return models.Candle{Bucket: bucket, Pair: pair, Open: o, High: h, Low: l, Close: cl}, nil
}

// aggregateCandles folds n consecutive candles into one, oldest first.
func aggregateCandles(in []models.Candle, n int) []models.Candle {
	if n <= 1 || len(in) == 0 {
		return in
	}
	out := make([]models.Candle, 0, len(in)/n+1)
	for i := 0; i < len(in); i += n {
		end := i + n
		if end > len(in) {
			end = len(in)
		}
		chunk := in[i:end]
		agg := models.Candle{
			Bucket: chunk[0].Bucket,
			Pair:   chunk[0].Pair,
			Open:   chunk[0].Open,
			High:   chunk[0].High,
			Low:    chunk[0].Low,
			Close:  chunk[len(chunk)-1].Close,
		}
		for _, c := range chunk[1:] {
			if c.High > agg.High {
				agg.High = c.High
			}
			if c.Low < agg.Low {
				agg.Low = c.Low
			}
		}
		out = append(out, agg)
	}
	return out
}

var _ drepo.CandleProvider = (*AlphaVantageClient)(nil)
