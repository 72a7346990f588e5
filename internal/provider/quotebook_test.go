package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
)

func TestQuoteBookServesFreshQuote(t *testing.T) {
	book := NewQuoteBook(30 * time.Second)
	q := &models.Quote{Pair: "EUR/USD", Price: 1.1050, Provider: "stream", Timestamp: time.Now()}
	if err := book.Process(context.Background(), q); err != nil {
		t.Fatalf("process: %v", err)
	}

	got, err := book.CurrentPrice(context.Background(), "EUR/USD")
	if err != nil {
		t.Fatalf("current price: %v", err)
	}
	if got.Price != 1.1050 {
		t.Fatalf("price = %v, want 1.1050", got.Price)
	}
}

func TestQuoteBookRejectsStaleQuote(t *testing.T) {
	book := NewQuoteBook(30 * time.Second)
	q := &models.Quote{Pair: "EUR/USD", Price: 1.1050, Timestamp: time.Now()}
	if err := book.Process(context.Background(), q); err != nil {
		t.Fatalf("process: %v", err)
	}
	book.now = func() time.Time { return time.Now().Add(time.Minute) }

	_, err := book.CurrentPrice(context.Background(), "EUR/USD")
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestQuoteBookUnknownPair(t *testing.T) {
	book := NewQuoteBook(0)
	_, err := book.CurrentPrice(context.Background(), "USD/JPY")
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestQuoteBookLatestWins(t *testing.T) {
	book := NewQuoteBook(30 * time.Second)
	ctx := context.Background()
	_ = book.Process(ctx, &models.Quote{Pair: "EUR/USD", Price: 1.1050, Timestamp: time.Now()})
	_ = book.Process(ctx, &models.Quote{Pair: "EUR/USD", Price: 1.1055, Timestamp: time.Now()})

	got, err := book.CurrentPrice(ctx, "EUR/USD")
	if err != nil {
		t.Fatalf("current price: %v", err)
	}
	if got.Price != 1.1055 {
		t.Fatalf("price = %v, want latest 1.1055", got.Price)
	}
}
