package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/illegalcall/emerge/internal/api"
	"github.com/illegalcall/emerge/internal/coach"
	"github.com/illegalcall/emerge/internal/config"
	"github.com/illegalcall/emerge/internal/dashboard"
	"github.com/illegalcall/emerge/internal/events"
	"github.com/illegalcall/emerge/internal/goals"
	"github.com/illegalcall/emerge/internal/profile"
	"github.com/illegalcall/emerge/internal/recommend"
	"github.com/illegalcall/emerge/internal/storage"
	"github.com/illegalcall/emerge/internal/suggest"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	// Initialize storage
	store, redisClient, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Initialize Kafka producer
	var publisher events.Publisher = events.Noop{Logger: logger}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(ctx, cfg.Kafka.Broker, cfg.Kafka.RetryMax, cfg.Kafka.RetryBackoff)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		publisher = events.NewKafkaPublisher(producer, cfg.Kafka.Topic)
		slog.Info("✅ Connected to Kafka")
	}
	defer publisher.Close()

	// Initialize upstream clients
	var llm suggest.TextGenerator = suggest.Unconfigured{}
	if client, err := suggest.NewGenAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout); err != nil {
		slog.Warn("Generative service disabled", "error", err)
	} else {
		llm = client
	}

	var videos recommend.VideoSearcher
	if searcher, err := recommend.NewYouTubeSearcher(ctx, cfg.YouTube.APIKey, cfg.YouTube.Timeout); err != nil {
		slog.Warn("Video search disabled, using fallback videos", "error", err)
	} else {
		videos = searcher
	}

	var locker goals.Locker
	var cache recommend.Cache
	if redisClient != nil {
		locker = goals.NewRedisLocker(redisClient, cfg.Goals.RefreshLockTTL)
		cache = recommend.NewRedisCache(redisClient, logger)
	}

	manager := goals.NewManager(store, suggest.NewGenerator(llm, logger), goals.Options{
		CompletionDelay: cfg.Goals.CompletionDelay,
		Locker:          locker,
		Publisher:       publisher,
		Logger:          logger,
	})
	defer manager.Close()

	recommender := recommend.NewService(videos, llm, recommend.Options{
		Cache:    cache,
		CacheTTL: cfg.Recommend.CacheTTL,
		Logger:   logger,
	})

	server := api.NewServer(cfg, api.Services{
		Profiles:   profile.NewService(store, publisher, logger),
		Goals:      manager,
		Dashboard:  dashboard.NewAggregator(store, manager, store, recommender, logger),
		Recommend:  recommender,
		Coach:      coach.New(store, llm, logger),
		Activities: store,
	}, logger)

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("🚀 Starting server", "port", cfg.Server.Port, "store", cfg.Database.Driver)
	if err := server.Start(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// openStore connects the configured store driver. The redis client is nil
// unless the postgres driver is used with redis enabled.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, *redis.Client, error) {
	if cfg.Database.Driver == config.StoreDriverMemory {
		slog.Info("Using in-memory store")
		return storage.NewMemoryStore(), nil, nil
	}

	clients, err := database.NewClients(ctx, database.Options{
		DatabaseURL:   cfg.Database.URL,
		RedisEnabled:  cfg.Redis.Enabled,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.Info("✅ Connected to databases")

	if err := clients.Migrate(ctx); err != nil {
		clients.Close()
		return nil, nil, err
	}

	return &clientStore{PostgresStore: storage.NewPostgresStore(clients.DB), clients: clients}, clients.Redis, nil
}

// clientStore closes redis along with the database handle.
type clientStore struct {
	*storage.PostgresStore
	clients *database.Clients
}

func (s *clientStore) Close() error {
	return s.clients.Close()
}
