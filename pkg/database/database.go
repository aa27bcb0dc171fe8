package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Options selects which backing services NewClients connects to.
type Options struct {
	DatabaseURL string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Clients holds the shared connections. Redis is nil when disabled.
type Clients struct {
	DB    *sqlx.DB
	Redis *redis.Client
}

func NewClients(ctx context.Context, opts Options) (*Clients, error) {
	// Connect to PostgreSQL
	db, err := sqlx.ConnectContext(ctx, "postgres", opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	clients := &Clients{DB: db}
	if !opts.RedisEnabled {
		return clients, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	clients.Redis = redisClient

	return clients, nil
}

// Migrate applies the embedded schema migrations.
func (c *Clients) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, c.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("✅ Database schema is up to date!")
	return nil
}

func (c *Clients) Close() error {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}
	}
	return c.DB.Close()
}
