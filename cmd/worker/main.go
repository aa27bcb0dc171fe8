package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/illegalcall/emerge/internal/config"
	"github.com/illegalcall/emerge/internal/storage"
	"github.com/illegalcall/emerge/internal/worker"
	"github.com/illegalcall/emerge/pkg/database"
	"github.com/illegalcall/emerge/pkg/kafka"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.StoreDriverPostgres {
		slog.Error("The activity worker needs the postgres store driver", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database clients
	db, err := database.NewClients(ctx, database.Options{DatabaseURL: cfg.Database.URL})
	if err != nil {
		slog.Error("Failed to initialize database clients", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("✅ Connected to databases")

	if err := db.Migrate(ctx); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka consumer
	consumer, err := kafka.NewConsumer(ctx, cfg.Kafka.Broker, cfg.Kafka.Group)
	if err != nil {
		slog.Error("Failed to create Kafka consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()
	slog.Info("✅ Connected to Kafka")

	// Create and start worker
	w := worker.NewWorker(cfg, storage.NewPostgresStore(db.DB), consumer)
	if err := w.Start(ctx); err != nil {
		slog.Error("Worker error", "error", err)
		os.Exit(1)
	}
}
