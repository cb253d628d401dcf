// Package kafka delivers outbox messages to Kafka using franz-go.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"fulfilment/internal/infrastructure/storage/postgres"
)

// Header names set on every produced record.
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderMessageID     = "message_id"
)

// Producer is the subset of *kgo.Client used by Publisher.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Config configures the Kafka client.
type Config struct {
	Brokers      []string
	Topic        string
	ClientID     string
	ProduceLimit time.Duration
}

// NewClient creates a franz-go client producing to cfg.Topic with
// idempotent, all-ISR acknowledged writes.
func NewClient(cfg Config) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.ProduceLimit > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.ProduceLimit))
	}
	return kgo.NewClient(opts...)
}

// Publisher implements postgres.OutboxHandler. Records are keyed by
// aggregate id so every event for one warehouse lands on one partition.
type Publisher struct {
	producer Producer
	topic    string
}

var _ postgres.OutboxHandler = (*Publisher)(nil)

// NewPublisher creates a publisher writing to topic.
func NewPublisher(producer Producer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Handle produces msg and waits for the broker acknowledgement.
func (p *Publisher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(msg.AggregateID),
		Value: msg.Payload,
		Headers: []kgo.RecordHeader{
			{Key: HeaderEventType, Value: []byte(msg.EventType)},
			{Key: HeaderAggregateType, Value: []byte(msg.AggregateType)},
			{Key: HeaderMessageID, Value: []byte(msg.ID.String())},
		},
		Timestamp: msg.CreatedAt,
	}

	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s to %s: %w", msg.EventType, p.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *Publisher) Close() {
	p.producer.Close()
}
