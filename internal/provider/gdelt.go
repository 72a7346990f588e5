package provider

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/config"
)

// GdeltClient adapts the GDELT DOC 2.0 API into geopolitical events.
// No API key required.
type GdeltClient struct {
	base *HTTPProviderBase
}

func NewGdelt(cfg config.ProviderConfig) *GdeltClient {
	return &GdeltClient{base: NewHTTPProviderBase(cfg)}
}

func (c *GdeltClient) Name() string { return c.base.Name() }

// countries whose politics move each currency
var currencyCountries = map[string][]string{
	"USD": {"united states"},
	"EUR": {"germany", "france", "european union"},
	"GBP": {"united kingdom"},
	"JPY": {"japan"},
	"CHF": {"switzerland"},
	"AUD": {"australia"},
	"CAD": {"canada"},
	"NZD": {"new zealand"},
}

type gdArticle struct {
	Title    string  `json:"title"`
	SeenDate string  `json:"seendate"`
	Tone     float64 `json:"tone"`
	Domain   string  `json:"domain"`
}

type gdResponse struct {
	Articles []gdArticle `json:"articles"`
}

func (c *GdeltClient) Events(ctx context.Context, pair models.Pair, since time.Time) ([]models.GeoEvent, error) {
	countries := append([]string{}, currencyCountries[pair.Base()]...)
	countries = append(countries, currencyCountries[pair.Quote()]...)
	if len(countries) == 0 {
		return nil, fmt.Errorf("%s: no countries mapped for %s: %w", c.Name(), pair, models.ErrInsufficientData)
	}

	span := time.Since(since)
	if span <= 0 {
		span = 7 * 24 * time.Hour
	}
	query := "(economy OR election OR sanctions OR conflict OR central bank) AND (" +
		strings.Join(countries, " OR ") + ")"

	var resp gdResponse
	err := c.base.GetJSON(ctx, "/api/v2/doc/doc", map[string][]string{
		"query":      {query},
		"mode":       {"artlist"},
		"format":     {"json"},
		"maxrecords": {"50"},
		"timespan":   {fmt.Sprintf("%dh", int(span.Hours()))},
		"sort":       {"datedesc"},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Articles) == 0 {
		return nil, fmt.Errorf("%s: no events for %s: %w", c.Name(), pair, models.ErrInsufficientData)
	}

	events := make([]models.GeoEvent, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		ts, err := time.Parse("20060102T150405Z", a.SeenDate)
		if err != nil {
			ts = time.Now()
		}
		events = append(events, models.GeoEvent{
			Description: a.Title,
			Tone:        a.Tone,
			Relevance:   relevanceFromTone(a.Tone),
			Timestamp:   ts,
		})
	}
	return events, nil
}

// relevanceFromTone buckets events by tone magnitude; strongly toned
// coverage correlates with market-moving stories.
func relevanceFromTone(tone float64) models.Relevance {
	switch m := math.Abs(tone); {
	case m >= 6:
		return models.RelevanceHigh
	case m >= 3:
		return models.RelevanceMedium
	default:
		return models.RelevanceLow
	}
}

var _ drepo.EventProvider = (*GdeltClient)(nil)
