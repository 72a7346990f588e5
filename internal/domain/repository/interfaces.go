package repository

import (
	"context"
	"time"

	"FxSignals/internal/domain/models"
)

// Provider is implemented by every external data adapter.
type Provider interface {
	Name() string
}

// PriceProvider serves point-in-time quotes for a pair.
type PriceProvider interface {
	Provider
	CurrentPrice(ctx context.Context, pair models.Pair) (models.Quote, error)
}

// CandleProvider serves historical OHLC series.
type CandleProvider interface {
	Provider
	Candles(ctx context.Context, pair models.Pair, tf Timeframe, count int) ([]models.Candle, error)
}

// IndicatorProvider serves macro indicators for a currency.
type IndicatorProvider interface {
	Provider
	Indicators(ctx context.Context, currency string) ([]models.EconomicIndicator, error)
}

// NewsProvider serves recent news for a pair.
type NewsProvider interface {
	Provider
	News(ctx context.Context, pair models.Pair, since time.Time) ([]models.NewsItem, error)
}

// EventProvider serves geopolitical events relevant to a pair.
type EventProvider interface {
	Provider
	Events(ctx context.Context, pair models.Pair, since time.Time) ([]models.GeoEvent, error)
}

// QuoteStream is a live quote feed, used as the top-ranked price source.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, pairs []models.Pair) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalPublisher pushes generated signals to downstream consumers.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, s *models.Signal) error
	PublishBatch(ctx context.Context, signals []*models.Signal) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordProviderCall(provider, category, result string)
	RecordBreakerState(provider string, state string)
	RecordCacheResult(category string, hit bool)
	RecordSignal(pair string, direction string)
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
	RecordLastPrice(pair string, price float64)
}
