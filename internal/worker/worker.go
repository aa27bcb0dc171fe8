package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	"github.com/illegalcall/emerge/internal/config"
	"github.com/illegalcall/emerge/internal/events"
	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/storage"
)

// Worker consumes lifecycle events and records them in the activity feed
type Worker struct {
	cfg        *config.Config
	activities storage.ActivityStore
	consumer   sarama.ConsumerGroup
	ready      chan bool
}

func NewWorker(cfg *config.Config, activities storage.ActivityStore, consumer sarama.ConsumerGroup) *Worker {
	slog.Info("Initializing new Worker")
	return &Worker{
		cfg:        cfg,
		activities: activities,
		consumer:   consumer,
		ready:      make(chan bool),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	topics := []string{w.cfg.Kafka.Topic}
	slog.Info("Starting worker", "topics", topics, "group", w.cfg.Kafka.Group)

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Start error logging for consumer errors
	go func() {
		for err := range w.consumer.Errors() {
			slog.Error("Kafka consumer error received", "error", err)
		}
	}()

	ready := w.ready
	go func() {
		for {
			if err := w.consumer.Consume(ctx, topics, w); err != nil {
				slog.Error("Error from consumer.Consume", "error", err)
			}
			if ctx.Err() != nil {
				slog.Info("Context done, exiting consumer loop", "error", ctx.Err())
				return
			}
			// Reset the ready channel after a new session is created
			w.ready = make(chan bool)
		}
	}()

	select {
	case <-ready:
		slog.Info("Worker setup complete; consumer ready")
	case <-ctx.Done():
		slog.Info("Context cancelled before consumer became ready")
		return nil
	}

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("Context cancelled; shutting down worker")
	}

	slog.Info("Worker shutting down gracefully")
	return nil
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (w *Worker) Setup(sarama.ConsumerGroupSession) error {
	slog.Info("Consumer group session setup complete")
	close(w.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (w *Worker) Cleanup(sarama.ConsumerGroupSession) error {
	slog.Info("Consumer group session cleanup complete")
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (w *Worker) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := w.processEvent(session.Context(), message); err != nil {
			slog.Error("Failed to process event", "offset", message.Offset, "partition", message.Partition, "error", err)
		}
		session.MarkMessage(message, "")
	}
	return nil
}

func (w *Worker) processEvent(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := events.Decode(msg.Value)
	if err != nil {
		slog.Error("Dropping undecodable event", "error", err, "raw", string(msg.Value))
		return err
	}

	activity, ok := ActivityFor(event)
	if !ok {
		slog.Warn("Ignoring unknown event type", "type", event.Type)
		return nil
	}

	retries := w.cfg.Kafka.RetryMax
	if retries < 1 {
		retries = 1
	}
	for attempt := 1; attempt <= retries; attempt++ {
		a := activity
		if err = w.activities.CreateActivity(ctx, &a); err == nil {
			slog.Debug("Activity recorded", "user_id", a.UserID, "type", a.Type, "attempt", attempt)
			return nil
		}
		slog.Error("Recording activity failed", "user_id", a.UserID, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.cfg.Kafka.RetryBackoff):
		}
	}
	return fmt.Errorf("failed to record activity after %d attempts: %w", retries, err)
}

// ActivityFor maps a lifecycle event to its activity feed entry.
func ActivityFor(event models.GoalEvent) (models.Activity, bool) {
	a := models.Activity{UserID: event.UserID, CreatedAt: event.OccurredAt}
	switch event.Type {
	case models.EventGoalCreated:
		a.Type = models.ActivityGoalCreated
		a.Title = "Added goal: " + event.Task
	case models.EventGoalCompleted:
		a.Type = models.ActivityGoalCompleted
		a.Title = "Completed goal: " + event.Task
	case models.EventGoalDeleted:
		a.Type = models.ActivityGoalDeleted
		a.Title = "Removed goal: " + event.Task
	case models.EventGoalsRefreshed:
		a.Type = models.ActivityGoalsRefreshed
		a.Title = fmt.Sprintf("Generated %d new goal suggestions", event.Count)
	case models.EventProfileSubmitted:
		a.Type = models.ActivityProfileSubmitted
		a.Title = "Updated career profile"
	default:
		return models.Activity{}, false
	}
	return a, true
}
