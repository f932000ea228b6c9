package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsevents "github.com/SscSPs/multicurrency_ledger/internal/core/ports/events"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes ledger events as JSON to one topic, keyed by company
// so events of a company keep their order within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

var _ portsevents.Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	key := event.CompanyID
	if key == "" {
		key = string(event.Type)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event %s: %w", event.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
