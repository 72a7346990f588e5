package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FxSignals/internal/domain/models"
	"FxSignals/pkg/config"
	"FxSignals/pkg/logger"
	"FxSignals/pkg/queue"
)

const jobGenerateSignal = "generate_signal"

// BatchEngine fans signal generation across pairs through a bounded
// worker queue. Per-pair failures are isolated into the batch result.
type BatchEngine struct {
	gen     *SignalGenerator
	workers *queue.MemoryQueue
	timeout time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	started bool
}

type batchTask struct {
	pair    models.Pair
	refresh bool
	results chan<- models.BatchItem
	ctx     context.Context
}

// batchJob adapts the generator to the queue's Job interface.
type batchJob struct {
	gen *SignalGenerator
}

func (j *batchJob) Type() string { return jobGenerateSignal }

func (j *batchJob) Handle(_ context.Context, payload interface{}) error {
	task, ok := payload.(*batchTask)
	if !ok {
		return fmt.Errorf("unexpected payload %T", payload)
	}

	item := models.BatchItem{Pair: task.pair}
	sig, err := j.gen.Generate(task.ctx, task.pair, task.refresh)
	if err != nil {
		item.Err = err.Error()
	} else {
		item.Signal = sig
	}

	select {
	case task.results <- item:
	case <-task.ctx.Done():
	}
	// errors are reported through the batch result, not retried
	return nil
}

func NewBatchEngine(cfg *config.Config, gen *SignalGenerator, log *logger.Logger) (*BatchEngine, error) {
	q := queue.NewMemoryQueue(&queue.QueueConfig{
		Workers:    cfg.Batch.Workers,
		QueueSize:  cfg.Batch.QueueSize,
		RetryLimit: cfg.Batch.RetryLimit,
		RetryDelay: cfg.Batch.RetryDelay,
	})
	if err := q.RegisterJob(&batchJob{gen: gen}); err != nil {
		return nil, err
	}
	timeout := cfg.Batch.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &BatchEngine{gen: gen, workers: q, timeout: timeout, log: log}, nil
}

// Start launches the worker pool.
func (b *BatchEngine) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.workers.Start(ctx)
	b.started = true
}

// Stop drains the worker pool.
func (b *BatchEngine) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return
	}
	b.workers.Stop()
	b.started = false
}

// GenerateAll produces signals for every pair, collecting per-pair
// outcomes. Duplicate pairs are collapsed.
func (b *BatchEngine) GenerateAll(ctx context.Context, pairs []models.Pair, refresh bool) (*models.BatchResult, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("batch: no pairs: %w", models.ErrConfiguration)
	}

	seen := make(map[models.Pair]bool, len(pairs))
	unique := make([]models.Pair, 0, len(pairs))
	for _, p := range pairs {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	results := make(chan models.BatchItem, len(unique))
	for _, p := range unique {
		task := &batchTask{pair: p, refresh: refresh, results: results, ctx: ctx}
		if err := b.workers.PublishMessage(ctx, jobGenerateSignal, task); err != nil {
			return nil, fmt.Errorf("batch enqueue %s: %w", p, err)
		}
	}

	res := &models.BatchResult{
		Requested: len(unique),
		Items:     make([]models.BatchItem, 0, len(unique)),
		StartedAt: start,
	}
	for i := 0; i < len(unique); i++ {
		select {
		case item := <-results:
			if item.Err == "" {
				res.Succeeded++
			} else {
				res.Failed++
			}
			res.Items = append(res.Items, item)
		case <-ctx.Done():
			// remaining pairs report the deadline as their failure
			for _, p := range unique {
				if !collected(res.Items, p) {
					res.Failed++
					res.Items = append(res.Items, models.BatchItem{Pair: p, Err: ctx.Err().Error()})
				}
			}
			res.Elapsed = time.Since(start)
			return res, nil
		}
	}

	res.Elapsed = time.Since(start)
	b.log.Info("batch complete",
		logger.Int("requested", res.Requested),
		logger.Int("succeeded", res.Succeeded),
		logger.Int("failed", res.Failed),
		logger.Duration("elapsed", res.Elapsed))
	return res, nil
}

func collected(items []models.BatchItem, pair models.Pair) bool {
	for _, it := range items {
		if it.Pair == pair {
			return true
		}
	}
	return false
}
