package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/config"
	"github.com/KirkDiggler/charcraft/internal/database/postgres"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
	"github.com/KirkDiggler/charcraft/internal/repositories/sessions"
	"github.com/KirkDiggler/charcraft/internal/repositories/usage"
)

const connectTimeout = 5 * time.Second

// Repositories groups the stores of one backend
type Repositories struct {
	Backend    config.StoreBackend
	Sessions   sessions.Repository
	Characters characters.Repository
	Usage      usage.Repository

	// Postgres is set for the postgres backend so callers can migrate
	Postgres *postgres.Client

	closers []func()
}

// Close releases the backend connections
func (r *Repositories) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// NewInMemoryRepositories keeps everything in process memory
func NewInMemoryRepositories() *Repositories {
	chars := characters.NewInMemoryRepository()
	return &Repositories{
		Backend:    config.StoreMemory,
		Sessions:   sessions.NewInMemoryRepository(chars),
		Characters: chars,
		Usage:      usage.NewInMemoryRepository(),
	}
}

// NewRedisRepositories stores everything in Redis
func NewRedisRepositories(client redis.UniversalClient) *Repositories {
	return &Repositories{
		Backend:    config.StoreRedis,
		Sessions:   sessions.NewRedis(client),
		Characters: characters.NewRedis(client),
		Usage:      usage.NewRedis(client),
	}
}

// NewPostgresRepositories stores everything in Postgres
func NewPostgresRepositories(client *postgres.Client) *Repositories {
	return &Repositories{
		Backend:    config.StorePostgres,
		Sessions:   sessions.NewPostgres(client.Pool()),
		Characters: characters.NewPostgres(client.DB()),
		Usage:      usage.NewPostgres(client.DB()),
		Postgres:   client,
	}
}

// OpenRepositories connects to the configured backend
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		logger.Warn("using in-memory repositories, data is lost on restart")
		return NewInMemoryRepositories(), nil

	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
		}
		logger.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))

		repos := NewRedisRepositories(client)
		repos.closers = append(repos.closers, func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", zap.Error(err))
			}
		})
		return repos, nil

	case config.StorePostgres:
		client, err := postgres.New(ctx, &postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			ConnectTimeout: connectTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("connected to postgres", zap.Int32("max_conns", cfg.Postgres.MaxConns))

		repos := NewPostgresRepositories(client)
		repos.closers = append(repos.closers, client.Close)
		return repos, nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
