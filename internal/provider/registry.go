package provider

import (
	"fmt"

	drepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/config"
)

// Data categories used for chain configuration and cache keys.
const (
	CategoryPrice      = "price"
	CategoryCandles    = "candles"
	CategoryIndicators = "indicators"
	CategoryNews       = "news"
	CategoryEvents     = "events"
)

// Registry holds constructed adapters by name, typed per category.
type Registry struct {
	Prices     map[string]drepo.PriceProvider
	Candles    map[string]drepo.CandleProvider
	Indicators map[string]drepo.IndicatorProvider
	News       map[string]drepo.NewsProvider
	Events     map[string]drepo.EventProvider
}

// Build constructs every configured adapter. The provider name selects
// the adapter implementation. An optional quote book is registered
// under its own name as the top-ranked price source.
func Build(cfg *config.Config, book *QuoteBook) (*Registry, error) {
	r := &Registry{
		Prices:     make(map[string]drepo.PriceProvider),
		Candles:    make(map[string]drepo.CandleProvider),
		Indicators: make(map[string]drepo.IndicatorProvider),
		News:       make(map[string]drepo.NewsProvider),
		Events:     make(map[string]drepo.EventProvider),
	}
	if book != nil {
		r.Prices[book.Name()] = book
	}

	for _, pc := range cfg.Providers {
		switch pc.Name {
		case "exchangerate":
			r.Prices[pc.Name] = NewExchangeRate(pc)
		case "frankfurter":
			r.Prices[pc.Name] = NewFrankfurter(pc)
		case "twelvedata":
			td := NewTwelveData(pc)
			r.Prices[pc.Name] = td
			r.Candles[pc.Name] = td
		case "alphavantage":
			r.Candles[pc.Name] = NewAlphaVantage(pc)
		case "fred":
			r.Indicators[pc.Name] = NewFred(pc)
		case "gnews":
			r.News[pc.Name] = NewGNews(pc)
		case "gdelt":
			r.Events[pc.Name] = NewGdelt(pc)
		default:
			return nil, fmt.Errorf("unknown provider %q", pc.Name)
		}
	}
	return r, nil
}
