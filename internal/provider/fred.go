package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/config"
)

// FredClient adapts the FRED observations API into per-currency macro
// indicators. Each currency maps to a fixed set of series ids.
type FredClient struct {
	base *HTTPProviderBase
}

func NewFred(cfg config.ProviderConfig) *FredClient {
	return &FredClient{base: NewHTTPProviderBase(cfg)}
}

func (c *FredClient) Name() string { return c.base.Name() }

// series ids per currency and indicator type
var fredSeries = map[string]map[models.IndicatorType]string{
	"USD": {
		models.IndInterestRate: "FEDFUNDS",
		models.IndGDPGrowth:    "A191RL1Q225SBEA",
		models.IndInflation:    "CPIAUCSL_PC1",
		models.IndUnemployment: "UNRATE",
		models.IndTradeBalance: "BOPGSTB",
	},
	"EUR": {
		models.IndInterestRate: "ECBDFR",
		models.IndGDPGrowth:    "CLVMNACSCAB1GQEA19_PC1",
		models.IndInflation:    "CP0000EZ19M086NEST_PC1",
		models.IndUnemployment: "LRHUTTTTEZM156S",
	},
	"GBP": {
		models.IndInterestRate: "IUDSOIA",
		models.IndGDPGrowth:    "CLVMNACSCAB1GQUK_PC1",
		models.IndInflation:    "GBRCPIALLMINMEI_PC1",
		models.IndUnemployment: "LRHUTTTTGBM156S",
	},
	"JPY": {
		models.IndInterestRate: "IRSTCI01JPM156N",
		models.IndGDPGrowth:    "JPNRGDPEXP_PC1",
		models.IndInflation:    "JPNCPIALLMINMEI_PC1",
		models.IndUnemployment: "LRUN64TTJPM156S",
	},
	"CHF": {
		models.IndInterestRate: "IRSTCI01CHM156N",
		models.IndInflation:    "CHECPIALLMINMEI_PC1",
		models.IndUnemployment: "LMUNRRTTCHM156S",
	},
	"AUD": {
		models.IndInterestRate: "IRSTCI01AUM156N",
		models.IndGDPGrowth:    "AUSGDPRQPSMEI_PC1",
		models.IndInflation:    "AUSCPIALLQINMEI_PC1",
		models.IndUnemployment: "LRHUTTTTAUM156S",
	},
	"CAD": {
		models.IndInterestRate: "IRSTCB01CAM156N",
		models.IndGDPGrowth:    "NAEXKP01CAQ657S",
		models.IndInflation:    "CANCPIALLMINMEI_PC1",
		models.IndUnemployment: "LRUNTTTTCAM156S",
	},
	"NZD": {
		models.IndInterestRate: "IR3TIB01NZQ156N",
		models.IndInflation:    "NZLCPIALLQINMEI_PC1",
	},
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type fredResponse struct {
	Observations []fredObservation `json:"observations"`
}

func (c *FredClient) Indicators(ctx context.Context, currency string) ([]models.EconomicIndicator, error) {
	series, ok := fredSeries[currency]
	if !ok {
		return nil, fmt.Errorf("%s: no series mapped for %s: %w", c.Name(), currency, models.ErrInsufficientData)
	}

	out := make([]models.EconomicIndicator, 0, len(series))
	for indType, id := range series {
		ind, err := c.latest(ctx, currency, indType, id)
		if err != nil {
			// partial coverage is acceptable, the analyzer discounts confidence
			continue
		}
		out = append(out, ind)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no observations for %s: %w", c.Name(), currency, models.ErrInsufficientData)
	}
	return out, nil
}

func (c *FredClient) latest(ctx context.Context, currency string, indType models.IndicatorType, seriesID string) (models.EconomicIndicator, error) {
	var resp fredResponse
	err := c.base.GetJSON(ctx, "/fred/series/observations", map[string][]string{
		"series_id":  {seriesID},
		"api_key":    {c.base.apiKey},
		"file_type":  {"json"},
		"sort_order": {"desc"},
		"limit":      {"1"},
	}, &resp)
	if err != nil {
		return models.EconomicIndicator{}, err
	}
	if len(resp.Observations) == 0 {
		return models.EconomicIndicator{}, fmt.Errorf("empty series %s: %w", seriesID, models.ErrInsufficientData)
	}

	obs := resp.Observations[0]
	v, err := strconv.ParseFloat(obs.Value, 64)
	if err != nil {
		return models.EconomicIndicator{}, fmt.Errorf("series %s value %q: %w", seriesID, obs.Value, models.ErrInsufficientData)
	}
	released, _ := time.Parse("2006-01-02", obs.Date)

	return models.EconomicIndicator{
		Currency: currency,
		Type:     indType,
		Value:    v,
		Period:   obs.Date,
		Source:   c.Name(),
		Released: released,
	}, nil
}

var _ drepo.IndicatorProvider = (*FredClient)(nil)
