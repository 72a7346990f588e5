package repository

import (
	"context"

	"FxSignals/internal/domain/models"
	"FxSignals/internal/domain/repository"
	pkgkafka "FxSignals/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka. One
// message per signal, keyed by pair so downstream consumers keep
// per-pair ordering.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka-backed signal publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func signalPayload(s *models.Signal) map[string]interface{} {
	return map[string]interface{}{
		"pair":         s.Pair.String(),
		"direction":    s.Direction,
		"strength":     s.Strength,
		"score":        s.Score,
		"confidence":   s.Confidence,
		"entry":        s.Entry.String(),
		"target":       s.Target.String(),
		"stop_loss":    s.StopLoss.String(),
		"target_pips":  s.TargetPips,
		"risk_reward":  s.RiskReward,
		"achieve_prob": s.AchieveProb,
		"generated_at": s.GeneratedAt.UTC(),
	}
}

func (p *KafkaSignalPublisher) PublishSignal(ctx context.Context, s *models.Signal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Pair.String()), signalPayload(s))
}

func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, signals []*models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, s := range signals {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(s.Pair.String()),
			Value: signalPayload(s),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSignal(context.Context, *models.Signal) error   { return nil }
func (NoopPublisher) PublishBatch(context.Context, []*models.Signal) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }

var _ repository.SignalPublisher = (*NoopPublisher)(nil)
