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

// TwelveDataClient adapts the Twelve Data time-series API. It serves
// both intraday candles and spot prices.
type TwelveDataClient struct {
	base *HTTPProviderBase
}

func NewTwelveData(cfg config.ProviderConfig) *TwelveDataClient {
	return &TwelveDataClient{base: NewHTTPProviderBase(cfg)}
}

func (c *TwelveDataClient) Name() string { return c.base.Name() }

func tdInterval(tf drepo.Timeframe) string {
	switch tf {
	case drepo.TF30m:
		return "30min"
	case drepo.TF1h:
		return "1h"
	case drepo.TF4h:
		return "4h"
	case drepo.TF1d:
		return "1day"
	default:
		return "4h"
	}
}

type tdValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
}

type tdSeriesResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Values  []tdValue `json:"values"`
}

func (c *TwelveDataClient) Candles(ctx context.Context, pair models.Pair, tf drepo.Timeframe, count int) ([]models.Candle, error) {
	var resp tdSeriesResponse
	err := c.base.GetJSON(ctx, "/time_series", map[string][]string{
		"symbol":     {pair.String()},
		"interval":   {tdInterval(tf)},
		"outputsize": {strconv.Itoa(count)},
		"apikey":     {c.base.apiKey},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("%s: %s: %w", c.Name(), resp.Message, models.ErrProviderUnavailable)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("%s: empty series for %s %s: %w", c.Name(), pair, tf, models.ErrInsufficientData)
	}

	candles := make([]models.Candle, 0, len(resp.Values))
	for _, v := range resp.Values {
		cd, err := v.toCandle(pair)
		if err != nil {
			continue
		}
		candles = append(candles, cd)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%s: no parseable candles for %s: %w", c.Name(), pair, models.ErrInsufficientData)
	}
	// API returns newest first; analysis expects chronological order
	sort.Slice(candles, func(i, j int) bool { return candles[i].Bucket.Before(candles[j].Bucket) })
	return candles, nil
}

func (v tdValue) toCandle(pair models.Pair) (models.Candle, error) {
	bucket, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		bucket, err = time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			return models.Candle{}, err
		}
	}
	o, err1 := strconv.ParseFloat(v.Open, 64)
	h, err2 := strconv.ParseFloat(v.High, 64)
	l, err3 := strconv.ParseFloat(v.Low, 64)
	cl, err4 := strconv.ParseFloat(v.Close, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return models.Candle{}, fmt.Errorf("bad ohlc values")
	}
	return models.Candle{Bucket: bucket, Pair: pair, Open: o, High: h, Low: l, Close: cl}, nil
}

type tdPriceResponse struct {
	Price   string `json:"price"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *TwelveDataClient) CurrentPrice(ctx context.Context, pair models.Pair) (models.Quote, error) {
	var resp tdPriceResponse
	err := c.base.GetJSON(ctx, "/price", map[string][]string{
		"symbol": {pair.String()},
		"apikey": {c.base.apiKey},
	}, &resp)
	if err != nil {
		return models.Quote{}, err
	}
	if resp.Status == "error" {
		return models.Quote{}, fmt.Errorf("%s: %s: %w", c.Name(), resp.Message, models.ErrProviderUnavailable)
	}
	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%s: bad price %q: %w", c.Name(), resp.Price, models.ErrInsufficientData)
	}
	if !pair.PriceInRange(price) {
		return models.Quote{}, fmt.Errorf("%s: price %.6f out of range for %s: %w", c.Name(), price, pair, models.ErrInsufficientData)
	}

	return models.Quote{
		Pair:      pair,
		Price:     price,
		Provider:  c.Name(),
		Timestamp: time.Now(),
	}, nil
}

var (
	_ drepo.CandleProvider = (*TwelveDataClient)(nil)
	_ drepo.PriceProvider  = (*TwelveDataClient)(nil)
)
