// Package kafka publishes and consumes domain events for systems that
// want to react to completed or failed trip plans. The planning core
// itself has no dependency on this package — the orchestration service
// publishes after plan() returns, purely as an additive notification.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/osamamer/trucking-partner/internal/platform/logger"
)

// Event is a domain event envelope.
type Event struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Source        string            `json:"source"`
	Time          time.Time         `json:"time"`
	Data          interface{}       `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// NewEvent creates a new event with a generated ID and current
// timestamp.
func NewEvent(eventType, source string, data interface{}) *Event {
	return &Event{
		ID:     uuid.New().String(),
		Type:   eventType,
		Source: source,
		Time:   time.Now().UTC(),
		Data:   data,
	}
}

// WithCorrelationID attaches a correlation ID for cross-service tracing.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// Producer publishes events to Kafka.
type Producer struct {
	writer *kafkago.Writer
	logger *logger.Logger
}

// NewProducer creates a producer writing to the given brokers.
func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
	}
	return &Producer{writer: writer, logger: log}
}

// Publish marshals and writes an event to topic.
func (p *Producer) Publish(ctx context.Context, topic string, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(event.ID),
		Value: data,
		Time:  event.Time,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}
	if event.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafkago.Header{
			Key: "correlation_id", Value: []byte(event.CorrelationID),
		})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Errorw("failed to publish event", "topic", topic, "event_type", event.Type, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debugw("event published", "topic", topic, "event_id", event.ID, "event_type", event.Type)
	return nil
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads events off a topic within a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	logger *logger.Logger
}

// NewConsumer creates a reader bound to a consumer group and topic.
func NewConsumer(brokers []string, groupID, topic string, log *logger.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		MaxWait:        1 * time.Second,
		StartOffset:    kafkago.LastOffset,
		CommitInterval: time.Second,
	})
	return &Consumer{reader: reader, logger: log}
}

// Handler processes one received event.
type Handler func(ctx context.Context, event *Event) error

// Consume runs handler against every message until ctx is canceled.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Errorw("failed to fetch message", "error", err)
				continue
			}

			var event Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Errorw("failed to unmarshal event", "error", err, "topic", msg.Topic)
				_ = c.reader.CommitMessages(ctx, msg)
				continue
			}

			if err := handler(ctx, &event); err != nil {
				c.logger.Errorw("failed to handle event", "error", err, "event_id", event.ID)
			}
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Errorw("failed to commit message", "error", err)
			}
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Topics enumerates every event topic this service publishes.
var Topics = struct {
	PlanCompleted string
	PlanFailed    string
}{
	PlanCompleted: "plans.trip.completed",
	PlanFailed:    "plans.trip.failed",
}
