package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"FxSignals/internal/domain/models"
	domrepo "FxSignals/internal/domain/repository"
	pkgkafka "FxSignals/pkg/kafka"
)

// SignalRequestHandler consumes batch signal requests from Kafka and
// runs them through the batch engine. Results go out on the signal topic.
type SignalRequestHandler struct {
	topic   string
	batch   *BatchEngine
	metrics domrepo.Metrics
}

func NewSignalRequestHandler(topic string, batch *BatchEngine, metrics domrepo.Metrics) *SignalRequestHandler {
	return &SignalRequestHandler{topic: topic, batch: batch, metrics: metrics}
}

func (h *SignalRequestHandler) Topic() string { return h.topic }

// incoming message schema: {pairs: ["EURUSD", ...], refresh: bool}
func (h *SignalRequestHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Pairs   []string `json:"pairs"`
		Refresh bool     `json:"refresh"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if len(m.Pairs) == 0 {
		h.metrics.RecordError("consumer_empty_request")
		return fmt.Errorf("signal request without pairs")
	}

	pairs := make([]models.Pair, 0, len(m.Pairs))
	for _, raw := range m.Pairs {
		p, err := models.ParsePair(raw)
		if err != nil {
			h.metrics.RecordError("consumer_bad_pair")
			return fmt.Errorf("signal request pair %q: %w", raw, err)
		}
		pairs = append(pairs, p)
	}

	start := time.Now()
	res, err := h.batch.GenerateAll(ctx, pairs, m.Refresh)
	h.metrics.RecordLatency("kafka_batch_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_batch")
		return err
	}
	if res.Failed > 0 {
		h.metrics.RecordError("consumer_batch_partial")
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*SignalRequestHandler)(nil)
