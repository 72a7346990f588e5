package provider

import (
	"context"
	"fmt"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/config"
)

// ExchangeRateClient adapts an exchangerate.host-style latest-rates API.
type ExchangeRateClient struct {
	base *HTTPProviderBase
}

func NewExchangeRate(cfg config.ProviderConfig) *ExchangeRateClient {
	return &ExchangeRateClient{base: NewHTTPProviderBase(cfg)}
}

func (c *ExchangeRateClient) Name() string { return c.base.Name() }

type erLatestResponse struct {
	Success bool               `json:"success"`
	Base    string             `json:"base"`
	Rates   map[string]float64 `json:"rates"`
}

func (c *ExchangeRateClient) CurrentPrice(ctx context.Context, pair models.Pair) (models.Quote, error) {
	var resp erLatestResponse
	query := map[string][]string{
		"base":    {pair.Base()},
		"symbols": {pair.Quote()},
	}
	if c.base.apiKey != "" {
		query["access_key"] = []string{c.base.apiKey}
	}
	if err := c.base.GetJSON(ctx, "/latest", query, &resp); err != nil {
		return models.Quote{}, err
	}

	rate, ok := resp.Rates[pair.Quote()]
	if !ok {
		return models.Quote{}, fmt.Errorf("%s: no rate for %s: %w", c.Name(), pair, models.ErrInsufficientData)
	}
	if !pair.PriceInRange(rate) {
		return models.Quote{}, fmt.Errorf("%s: rate %.6f out of range for %s: %w", c.Name(), rate, pair, models.ErrInsufficientData)
	}

	return models.Quote{
		Pair:      pair,
		Price:     rate,
		Provider:  c.Name(),
		Timestamp: time.Now(),
	}, nil
}

var _ drepo.PriceProvider = (*ExchangeRateClient)(nil)
