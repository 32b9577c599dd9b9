package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// PublishTimeout bounds each best-effort publish.
var PublishTimeout = 2 * time.Second

type Type string

const (
	TypeStockLow           Type = "stock.low"
	TypeTransactionCreated Type = "transaction.created"
)

// Event is the envelope written to the broker. Key selects the partition so
// events about the same product or transaction stay ordered.
type Event struct {
	ID        uuid.UUID `json:"event_id"`
	Type      Type      `json:"event_type"`
	Key       string    `json:"-"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func New(t Type, key string, payload any) Event {
	return Event{
		ID:        uuid.New(),
		Type:      t,
		Key:       key,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           PublishTimeout,
		MaxAttempts:            3,
	})
}

func NewPublisher(w Writer) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))

	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding %s event: %w", e.Type, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Key),
			Value: value,
			Time:  e.Timestamp,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
			},
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Nop discards every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, ...Event) error { return nil }

// PublishBestEffort logs publish failures instead of returning them. The
// publish outlives cancellation of ctx but gives up after PublishTimeout.
func PublishBestEffort(ctx context.Context, p Publisher, events ...Event) {
	if p == nil || len(events) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()

	if err := p.Publish(ctx, events...); err != nil {
		slog.Warn("Failed to publish events", "count", len(events), "type", events[0].Type, "error", err)
	}
}
