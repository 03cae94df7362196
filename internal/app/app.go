// Package app wires configuration into stores and queues shared by the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/print-connect-backend/internal/config"
	"github.com/Raymond9734/print-connect-backend/internal/db"
	"github.com/Raymond9734/print-connect-backend/internal/fixtures"
	"github.com/Raymond9734/print-connect-backend/internal/queue"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
)

// memoryQueueBuffer is the capacity of the in-process queue
const memoryQueueBuffer = 1000

// Backend is the configured data store
type Backend struct {
	Repos repository.Repositories
	// DB is nil for the in-memory store
	DB *db.DB
}

// CheckWorker reports whether cfg can run the standalone worker. The worker
// reads orders written by the API, so it needs the shared queue and store.
func CheckWorker(cfg *config.Config) error {
	if !cfg.QueueEnabled() {
		return fmt.Errorf("REDIS_URL is required for the standalone worker")
	}
	if cfg.Store.Backend != config.StorePostgres {
		return fmt.Errorf("the standalone worker requires STORE_BACKEND=%s, got %q", config.StorePostgres, cfg.Store.Backend)
	}
	return nil
}

// LoadDataset reads the fixture override if one is configured, else the embedded fixtures
func LoadDataset(cfg *config.Config) (*fixtures.Dataset, error) {
	if cfg.Store.FixturesPath != "" {
		return fixtures.LoadFile(cfg.Store.FixturesPath)
	}
	return fixtures.Load()
}

// OpenDatabase connects to Postgres using the database settings
func OpenDatabase(cfg *config.Config) (*db.DB, error) {
	return db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
}

// OpenBackend opens the store selected by STORE_BACKEND
func OpenBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		database, err := OpenDatabase(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		logger.Info("using postgres store",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.DBName),
		)
		return &Backend{
			Repos: repository.NewPostgresRepositories(database.DB),
			DB:    database,
		}, nil

	default:
		ds, err := LoadDataset(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}

		logger.Info("using in-memory store",
			slog.Int("providers", len(ds.Providers)),
			slog.Int("users", len(ds.Users)),
		)
		return &Backend{
			Repos: repository.NewMemoryStore(ds).Repositories(),
		}, nil
	}
}

// Close releases the database connection, if any
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// OpenQueue connects to Redis when REDIS_URL is set and falls back to an
// in-process queue otherwise. The bool reports whether the queue is in-process.
func OpenQueue(cfg *config.Config, logger *slog.Logger) (queue.Client, bool, error) {
	if !cfg.QueueEnabled() {
		logger.Info("REDIS_URL not set, using in-process notification queue")
		return queue.NewMemoryClient(memoryQueueBuffer, logger), true, nil
	}

	client, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		return nil, false, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, false, nil
}
