package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/pkg/logger"
)

// KafkaProducer publishes booking lifecycle events to a Kafka topic. A nil
// *KafkaProducer is valid and drops events, so event publishing stays
// optional in deployments without a broker.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
	log    logger.Logger
}

// NewKafkaProducer creates a producer writing to the given topic.
func NewKafkaProducer(brokers []string, topic string, log logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaProducer{writer: writer, topic: topic, log: log}
}

// Publish implements domain.EventProducer.
func (p *KafkaProducer) Publish(ctx context.Context, key string, event any) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	p.log.Debug("published event", "topic", p.topic, "key", key)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

var _ domain.EventProducer = (*KafkaProducer)(nil)
