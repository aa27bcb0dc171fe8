// Package events publishes goal and profile lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/illegalcall/emerge/internal/metrics"
	"github.com/illegalcall/emerge/internal/models"
)

// Publisher hands lifecycle events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, event models.GoalEvent) error
	Close() error
}

// KafkaPublisher writes events to a topic keyed by user id, so every
// event of one user lands on the same partition in order.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.GoalEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.UserID, 10)),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		metrics.EventsPublished.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("failed to publish event: %w", err)
	}

	metrics.EventsPublished.WithLabelValues(event.Type, "ok").Inc()
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Noop drops events. It is used when kafka is disabled.
type Noop struct {
	Logger *slog.Logger
}

func (n Noop) Publish(ctx context.Context, event models.GoalEvent) error {
	if n.Logger != nil {
		n.Logger.Debug("Dropping event, publisher disabled", "type", event.Type, "user_id", event.UserID)
	}
	metrics.EventsPublished.WithLabelValues(event.Type, "dropped").Inc()
	return nil
}

func (Noop) Close() error {
	return nil
}

// Decode parses an event produced by KafkaPublisher.
func Decode(data []byte) (models.GoalEvent, error) {
	var event models.GoalEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to decode event: %w", err)
	}
	if event.Type == "" || event.UserID <= 0 {
		return event, errors.New("event is missing type or user id")
	}
	return event, nil
}
