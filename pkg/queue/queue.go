package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type QueueService interface {
	PublishMessage(ctx context.Context, msgType string, payload interface{}) error
}

// Job consumes messages of one type.
type Job interface {
	// Type identifies the messages this job handles.
	Type() string

	// Handle processes one payload.
	Handle(ctx context.Context, payload interface{}) error
}

// QueueConfig contains the configuration for the queue
type QueueConfig struct {
	Workers    int           // number of workers
	QueueSize  int           // size of the queue
	RetryLimit int           // number of maximum retries
	RetryDelay time.Duration // time delay between retries
}

// Message represents a message in the queue
type Message struct {
	ID        string
	Type      string
	Payload   interface{}
	Attempts  int
	Timestamp time.Time
}

// MemoryQueue is a bounded in-process worker queue. Messages are routed
// to registered jobs by type; failed handlers retry up to RetryLimit.
type MemoryQueue struct {
	config *QueueConfig
	jobs   map[string]Job
	ch     chan Message
	seq    atomic.Int64

	mu        sync.RWMutex
	isRunning bool
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

// NewMemoryQueue creates a worker queue with the given configuration.
func NewMemoryQueue(config *QueueConfig) *MemoryQueue {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}

	return &MemoryQueue{
		config: config,
		jobs:   make(map[string]Job),
		ch:     make(chan Message, config.QueueSize),
	}
}

// RegisterJob registers a handler for its message type.
func (q *MemoryQueue) RegisterJob(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.jobs[job.Type()]; exists {
		return fmt.Errorf("job for type %q already registered", job.Type())
	}
	q.jobs[job.Type()] = job
	return nil
}

// Start launches the worker goroutines.
func (q *MemoryQueue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.isRunning {
		q.mu.Unlock()
		return
	}
	q.isRunning = true
	ctx, q.cancel = context.WithCancel(ctx)
	q.mu.Unlock()

	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Stop cancels the workers and waits for them to drain.
func (q *MemoryQueue) Stop() {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return
	}
	q.isRunning = false
	cancel := q.cancel
	q.mu.Unlock()

	cancel()
	q.wg.Wait()
}

// PublishMessage enqueues a message, blocking while the queue is full.
func (q *MemoryQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	q.mu.RLock()
	_, known := q.jobs[msgType]
	running := q.isRunning
	q.mu.RUnlock()
	if !known {
		return fmt.Errorf("no job registered for type %q", msgType)
	}
	if !running {
		return fmt.Errorf("queue not started")
	}

	msg := Message{
		ID:        strconv.FormatInt(q.seq.Add(1), 10),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q.ch:
			q.handle(ctx, msg)
		}
	}
}

func (q *MemoryQueue) handle(ctx context.Context, msg Message) {
	q.mu.RLock()
	job := q.jobs[msg.Type]
	q.mu.RUnlock()
	if job == nil {
		return
	}

	for {
		err := job.Handle(ctx, msg.Payload)
		if err == nil {
			return
		}
		msg.Attempts++
		if msg.Attempts > q.config.RetryLimit {
			return
		}
		select {
		case <-time.After(q.config.RetryDelay):
		case <-ctx.Done():
			return
		}
	}
}

var _ QueueService = (*MemoryQueue)(nil)

func ParsePayload[T any](payload interface{}) (*T, error) {
	var result T

	switch p := payload.(type) {
	case *T:
		return p, nil
	case T:
		return &p, nil
	case map[string]interface{}:
		jsonData, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal map to json: %w", err)
		}
		if err := json.Unmarshal(jsonData, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal json to struct: %w", err)
		}
		return &result, nil
	case json.RawMessage:
		if err := json.Unmarshal(p, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		return &result, nil
	default:
		return nil, fmt.Errorf("invalid payload type: %T", payload)
	}
}
