package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/martianbank/banking/pkg/config"
	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes envelopes to a single topic, keyed by source so all
// events of one kind stay on one partition. Publish returns once the broker
// acknowledges the write; there is no internal retry.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for the configured brokers and topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger.With("bus", "kafka"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, env events.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("kafka publish: marshal envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(env.Source),
		Value: value,
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte(uuid.NewString())},
			{Key: "detail_type", Value: []byte(env.DetailType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	p.logger.Debug("envelope published",
		"source", env.Source, "detail_type", env.DetailType)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ eventbus.Publisher = (*KafkaPublisher)(nil)

// KafkaConsumer reads envelopes from the topic and hands them to a handler
// one at a time. Offsets commit only after the handler returns nil, so a
// failed application is redelivered (at-least-once; the Balance Updater
// de-duplicates by event id).
type KafkaConsumer struct {
	reader  *kafka.Reader
	handler eventbus.HandlerFunc
	logger  *slog.Logger
}

// NewKafkaConsumer creates a consumer in the configured group.
func NewKafkaConsumer(cfg config.KafkaConfig, handler eventbus.HandlerFunc, logger *slog.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
			GroupID: cfg.GroupID,
		}),
		handler: handler,
		logger:  logger.With("bus", "kafka", "group", cfg.GroupID),
	}
}

// Run consumes until the context is cancelled.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("kafka fetch: %w", err)
		}

		var env events.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			// A malformed envelope can never succeed; log and commit past it.
			c.logger.Error("malformed envelope, skipping",
				"offset", msg.Offset, "error", err)
		} else if err := c.handler(ctx, env); err != nil {
			// Stop without committing: the envelope is redelivered when the
			// consumer restarts, and the failure stays visible to the operator.
			c.logger.Error("envelope processing failed",
				"source", env.Source, "detail_type", env.DetailType,
				"offset", msg.Offset, "error", err)
			return fmt.Errorf("process envelope %s/%s: %w", env.Source, env.DetailType, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("kafka commit: %w", err)
		}
	}
}

// Close closes the underlying reader.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
