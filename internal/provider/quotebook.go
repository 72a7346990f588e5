package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
)

// QuoteBook keeps the most recent streamed quote per pair. It is fed by the
// quote pipeline and doubles as the highest-ranked price source: a streamed
// quote younger than maxAge is served without any REST call.
type QuoteBook struct {
	mu     sync.RWMutex
	latest map[models.Pair]models.Quote
	maxAge time.Duration
	now    func() time.Time
}

// NewQuoteBook creates a quote book. Entries older than maxAge are treated
// as stale and never served.
func NewQuoteBook(maxAge time.Duration) *QuoteBook {
	if maxAge <= 0 {
		maxAge = 30 * time.Second
	}
	return &QuoteBook{
		latest: make(map[models.Pair]models.Quote),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Process records a quote. Satisfies the pipeline processor contract.
func (b *QuoteBook) Process(_ context.Context, q *models.Quote) error {
	if q == nil {
		return fmt.Errorf("quote nil")
	}
	b.mu.Lock()
	b.latest[q.Pair] = *q
	b.mu.Unlock()
	return nil
}

// StreamName is the provider name the quote book registers under; price
// chains reference the streamed source by this name.
const StreamName = "stream"

// Name identifies the book as the stream-backed price source.
func (b *QuoteBook) Name() string { return StreamName }

// CurrentPrice serves the latest streamed quote if it is fresh enough.
func (b *QuoteBook) CurrentPrice(_ context.Context, pair models.Pair) (models.Quote, error) {
	b.mu.RLock()
	q, ok := b.latest[pair]
	b.mu.RUnlock()
	if !ok {
		return models.Quote{}, fmt.Errorf("no streamed quote for %s: %w", pair, models.ErrProviderUnavailable)
	}
	if b.now().Sub(q.Timestamp) > b.maxAge {
		return models.Quote{}, fmt.Errorf("streamed quote for %s stale: %w", pair, models.ErrProviderUnavailable)
	}
	return q, nil
}

var _ drepo.PriceProvider = (*QuoteBook)(nil)
