package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"wagebridge/internal/platform/kafka/producer"
)

// KafkaPublisher delivers audit events to a Kafka topic. Delivery is
// asynchronous so a slow broker never stalls attestation requests; failed
// deliveries are logged by the producer.
type KafkaPublisher struct {
	producer *producer.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafka creates a Kafka-backed audit publisher.
func NewKafka(p *producer.Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic, logger: logger}
}

// Emit serializes the event and hands it to the async producer. Events for
// the same period nonce share a partition key so their order is preserved.
func (p *KafkaPublisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	key := event.PeriodNonce
	if key == "" {
		key = event.AttestationID
	}

	return p.producer.ProduceAsync(&producer.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: payload,
		Headers: map[string]string{
			"action": string(event.Action),
		},
	})
}

// Close flushes buffered events and shuts down the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Verify interface is satisfied.
var _ Publisher = (*KafkaPublisher)(nil)
