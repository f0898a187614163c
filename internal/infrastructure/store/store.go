// Package store opens the persistence backend selected by metadata.driver.
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/adapter/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/config"
	domainRepo "github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/database"
)

// Stores are the repositories of one backend
type Stores struct {
	Metadata      domainRepo.MetadataRepository
	Notifications domainRepo.NotificationRepository

	// Ping is nil for backends without a connection
	Ping  func(ctx context.Context) error
	Close func() error
}

// Open connects to the configured backend. The postgres backend is migrated on open.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.Metadata.Driver {
	case config.MetadataDriverPostgres:
		db, err := database.NewConnection(&cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db, logger); err != nil {
			_ = database.Close(db, logger)
			return nil, err
		}
		repos := database.NewRepositories(db, logger)
		return &Stores{
			Metadata:      repos.Metadata,
			Notifications: repos.Notifications,
			Ping:          func(ctx context.Context) error { return database.Ping(ctx, db) },
			Close:         func() error { return database.Close(db, logger) },
		}, nil

	case config.MetadataDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Redis connection established", zap.String("addr", cfg.Redis.Addr()))
		logger.Warn("Notification log is kept in memory with the redis metadata driver")

		return &Stores{
			Metadata:      repository.NewRedisMetadataRepository(client, logger),
			Notifications: repository.NewMemoryNotificationRepository(),
			Ping:          func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:         client.Close,
		}, nil

	case config.MetadataDriverMemory:
		logger.Warn("Using in-memory metadata store; configuration is lost on restart")
		return &Stores{
			Metadata:      repository.NewMemoryMetadataRepository(),
			Notifications: repository.NewMemoryNotificationRepository(),
			Close:         func() error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unsupported metadata driver: %q", cfg.Metadata.Driver)
}
