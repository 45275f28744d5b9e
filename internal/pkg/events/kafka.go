package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher forwards changes to a Kafka topic keyed by document id.
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
}

// NewKafkaWriter builds a writer for the given brokers and topic.
func NewKafkaWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, timeout: 5 * time.Second}
}

func (p *KafkaPublisher) Publish(ctx context.Context, change Change) {
	msg, err := toMessage(change)
	if err != nil {
		slog.Error("Failed to encode change event", "collection", change.Collection, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to publish change event",
			"collection", change.Collection,
			"action", change.Action,
			"document_id", change.DocumentID,
			"error", err,
		)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(change Change) (kafkago.Message, error) {
	payload, err := json.Marshal(change)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("failed to marshal change: %w", err)
	}

	key := change.DocumentID
	if key == "" {
		key = change.Collection
	}

	return kafkago.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  change.At,
		Headers: []kafkago.Header{
			{Key: "collection", Value: []byte(change.Collection)},
			{Key: "action", Value: []byte(change.Action)},
		},
	}, nil
}
