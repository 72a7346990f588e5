package provider

import (
	"context"
	"fmt"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/config"
)

// FrankfurterClient adapts the Frankfurter reference-rate API. It needs
// no API key, which makes it a cheap tail entry in price chains.
type FrankfurterClient struct {
	base *HTTPProviderBase
}

func NewFrankfurter(cfg config.ProviderConfig) *FrankfurterClient {
	return &FrankfurterClient{base: NewHTTPProviderBase(cfg)}
}

func (c *FrankfurterClient) Name() string { return c.base.Name() }

type ffLatestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func (c *FrankfurterClient) CurrentPrice(ctx context.Context, pair models.Pair) (models.Quote, error) {
	var resp ffLatestResponse
	if err := c.base.GetJSON(ctx, "/latest", map[string][]string{
		"from": {pair.Base()},
		"to":   {pair.Quote()},
	}, &resp); err != nil {
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

var _ drepo.PriceProvider = (*FrankfurterClient)(nil)
