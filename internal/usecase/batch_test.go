package usecase

import (
	"context"
	"testing"

	"FxSignals/internal/domain/models"
	"FxSignals/pkg/logger"
)

func newTestBatchEngine(t *testing.T) *BatchEngine {
	t.Helper()
	reg := emptyRegistry()
	reg.Prices["a"] = &fixedPriceProvider{name: "a", price: 1.1050}
	reg.Prices["b"] = &fixedPriceProvider{name: "b", price: 1.1052}
	reg.Prices["c"] = &fixedPriceProvider{name: "c", price: 1.1049}
	g := newTestGenerator(t, reg)

	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	engine, err := NewBatchEngine(g.cfg, g, log)
	if err != nil {
		t.Fatalf("batch engine: %v", err)
	}
	return engine
}

func TestGenerateAllDeduplicates(t *testing.T) {
	engine := newTestBatchEngine(t)
	ctx := context.Background()
	engine.Start(ctx)
	defer engine.Stop()

	pairs := []models.Pair{"EURUSD", "GBPUSD", "EURUSD"}
	res, err := engine.GenerateAll(ctx, pairs, false)
	if err != nil {
		t.Fatalf("generate all: %v", err)
	}
	if res.Requested != 2 {
		t.Fatalf("requested = %d, want 2 after dedup", res.Requested)
	}
	if res.Succeeded != 2 || res.Failed != 0 {
		t.Fatalf("succeeded = %d failed = %d, want 2/0", res.Succeeded, res.Failed)
	}
	if len(res.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(res.Items))
	}
	for _, item := range res.Items {
		if item.Err != "" {
			t.Fatalf("pair %s failed: %s", item.Pair, item.Err)
		}
		if item.Signal == nil {
			t.Fatalf("pair %s missing signal", item.Pair)
		}
	}
}

func TestGenerateAllEmpty(t *testing.T) {
	engine := newTestBatchEngine(t)
	engine.Start(context.Background())
	defer engine.Stop()

	if _, err := engine.GenerateAll(context.Background(), nil, false); err == nil {
		t.Fatal("expected error for empty pair list")
	}
}
