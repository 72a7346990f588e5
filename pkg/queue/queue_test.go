package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	name   string
	mu     sync.Mutex
	seen   []interface{}
	fails  atomic.Int32
	done   chan struct{}
	expect int
}

func (j *countingJob) Type() string { return j.name }

func (j *countingJob) Handle(_ context.Context, payload interface{}) error {
	if j.fails.Load() > 0 {
		j.fails.Add(-1)
		return fmt.Errorf("transient")
	}
	j.mu.Lock()
	j.seen = append(j.seen, payload)
	n := len(j.seen)
	j.mu.Unlock()
	if n == j.expect {
		close(j.done)
	}
	return nil
}

func TestQueueProcessesAllMessages(t *testing.T) {
	q := NewMemoryQueue(&QueueConfig{Workers: 3, QueueSize: 8})
	job := &countingJob{name: "work", expect: 10, done: make(chan struct{})}
	if err := q.RegisterJob(job); err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx := context.Background()
	q.Start(ctx)
	defer q.Stop()

	for i := 0; i < 10; i++ {
		if err := q.PublishMessage(ctx, "work", i); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
	}
}

func TestQueueRetriesTransientFailures(t *testing.T) {
	q := NewMemoryQueue(&QueueConfig{Workers: 1, QueueSize: 2, RetryLimit: 2, RetryDelay: 5 * time.Millisecond})
	job := &countingJob{name: "flaky", expect: 1, done: make(chan struct{})}
	job.fails.Store(2)
	if err := q.RegisterJob(job); err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx := context.Background()
	q.Start(ctx)
	defer q.Stop()

	if err := q.PublishMessage(ctx, "flaky", "payload"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not retried to completion")
	}
}

func TestPublishUnknownType(t *testing.T) {
	q := NewMemoryQueue(nil)
	q.Start(context.Background())
	defer q.Stop()

	if err := q.PublishMessage(context.Background(), "nope", 1); err == nil {
		t.Fatal("expected error for unregistered type")
	}
}

func TestParsePayloadRoundTrip(t *testing.T) {
	type task struct {
		Pair string `json:"pair"`
	}

	direct, err := ParsePayload[task](task{Pair: "EUR/USD"})
	if err != nil || direct.Pair != "EUR/USD" {
		t.Fatalf("direct: %v %v", direct, err)
	}

	fromMap, err := ParsePayload[task](map[string]interface{}{"pair": "USD/JPY"})
	if err != nil || fromMap.Pair != "USD/JPY" {
		t.Fatalf("from map: %v %v", fromMap, err)
	}
}
