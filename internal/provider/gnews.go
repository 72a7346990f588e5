package provider

import (
	"context"
	"fmt"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/config"
)

// GNewsClient adapts a GNews-style article search API.
type GNewsClient struct {
	base *HTTPProviderBase
}

func NewGNews(cfg config.ProviderConfig) *GNewsClient {
	return &GNewsClient{base: NewHTTPProviderBase(cfg)}
}

func (c *GNewsClient) Name() string { return c.base.Name() }

type gnArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type gnResponse struct {
	TotalArticles int         `json:"totalArticles"`
	Articles      []gnArticle `json:"articles"`
}

func (c *GNewsClient) News(ctx context.Context, pair models.Pair, since time.Time) ([]models.NewsItem, error) {
	query := fmt.Sprintf("%q OR %q OR %q",
		pair.String(),
		pair.Base()+" "+pair.Quote(),
		currencyName(pair.Base())+" "+currencyName(pair.Quote()),
	)

	var resp gnResponse
	err := c.base.GetJSON(ctx, "/api/v4/search", map[string][]string{
		"q":      {query},
		"lang":   {"en"},
		"max":    {"25"},
		"from":   {since.UTC().Format(time.RFC3339)},
		"apikey": {c.base.apiKey},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Articles) == 0 {
		return nil, fmt.Errorf("%s: no articles for %s: %w", c.Name(), pair, models.ErrInsufficientData)
	}

	items := make([]models.NewsItem, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			published = time.Now()
		}
		if published.Before(since) {
			continue
		}
		items = append(items, models.NewsItem{
			Title:       a.Title,
			Summary:     a.Description,
			Source:      a.Source.Name,
			PublishedAt: published,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: no articles since %s for %s: %w", c.Name(), since.Format("2006-01-02"), pair, models.ErrInsufficientData)
	}
	return items, nil
}

func currencyName(code string) string {
	names := map[string]string{
		"USD": "dollar",
		"EUR": "euro",
		"GBP": "pound sterling",
		"JPY": "yen",
		"CHF": "swiss franc",
		"AUD": "australian dollar",
		"CAD": "canadian dollar",
		"NZD": "new zealand dollar",
	}
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

var _ drepo.NewsProvider = (*GNewsClient)(nil)
