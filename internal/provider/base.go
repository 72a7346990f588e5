package provider

import (
	"context"
	"fmt"
	"time"

	"FxSignals/pkg/config"
	xhttp "FxSignals/pkg/http"
)

// HTTPProviderBase provides a DRY foundation for provider HTTP adapters.
// It centralizes client construction and JSON GET request handling.
type HTTPProviderBase struct {
	name    string
	baseURL string
	apiKey  string
	client  *xhttp.Client
}

// NewHTTPProviderBase builds an HTTP client from one provider's config.
func NewHTTPProviderBase(cfg config.ProviderConfig) *HTTPProviderBase {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProviderBase{
		name:    cfg.Name,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (b *HTTPProviderBase) Name() string { return b.name }

// GetJSON fetches `path` under baseURL with query params and decodes
// JSON into dest.
func (b *HTTPProviderBase) GetJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("provider %s http client not initialized", b.name)
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		QueryParams: query,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}
