package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
)

type testMetrics struct{}

func (testMetrics) RecordProviderCall(string, string, string) {}
func (testMetrics) RecordBreakerState(string, string)         {}
func (testMetrics) RecordCacheResult(string, bool)            {}
func (testMetrics) RecordSignal(string, string)               {}
func (testMetrics) RecordLatency(string, float64)             {}
func (testMetrics) RecordError(string)                        {}
func (testMetrics) RecordLastPrice(string, float64)           {}

type recordingProc struct {
	quotes []*models.Quote
	err    error
}

func (p *recordingProc) Process(_ context.Context, q *models.Quote) error {
	if p.err != nil {
		return p.err
	}
	p.quotes = append(p.quotes, q)
	return nil
}

func quote(pair models.Pair, price float64) *models.Quote {
	return &models.Quote{Pair: pair, Price: price, Provider: "stream", Timestamp: time.Now()}
}

func TestPipelineForwardsValidQuote(t *testing.T) {
	proc := &recordingProc{}
	p := NewQuotePipeline(proc, testMetrics{})

	if err := p.Process(context.Background(), quote("EUR/USD", 1.1050)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(proc.quotes) != 1 {
		t.Fatalf("forwarded %d quotes, want 1", len(proc.quotes))
	}
}

func TestPipelineRejectsInvalidQuotes(t *testing.T) {
	proc := &recordingProc{}
	p := NewQuotePipeline(proc, testMetrics{})
	ctx := context.Background()

	cases := []*models.Quote{
		nil,
		{Pair: "", Price: 1.1, Timestamp: time.Now()},
		{Pair: "EUR/USD", Price: 1.1},
		{Pair: "EUR/USD", Price: -1, Timestamp: time.Now()},
		// outside the sanity window for the pair
		{Pair: "EUR/USD", Price: 9.99, Timestamp: time.Now()},
	}
	for i, q := range cases {
		if err := p.Process(ctx, q); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if len(proc.quotes) != 0 {
		t.Fatalf("forwarded %d quotes, want none", len(proc.quotes))
	}
}

func TestPipelineThrottlesPerPair(t *testing.T) {
	proc := &recordingProc{}
	p := NewQuotePipeline(proc, testMetrics{}, WithMaxRPS(1))
	ctx := context.Background()

	// burst on one pair passes once, the other pair is untouched
	for i := 0; i < 5; i++ {
		if err := p.Process(ctx, quote("EUR/USD", 1.1050)); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	if err := p.Process(ctx, quote("GBP/USD", 1.2700)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(proc.quotes) != 2 {
		t.Fatalf("forwarded %d quotes, want 2", len(proc.quotes))
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &recordingProc{err: errors.New("book unavailable")}
	p := NewQuotePipeline(proc, testMetrics{}, WithBufferSize(4))

	err := p.Process(context.Background(), quote("EUR/USD", 1.1050))
	if err == nil {
		t.Fatal("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("buffered %d quotes, want 1", len(p.bufCh))
	}
}
