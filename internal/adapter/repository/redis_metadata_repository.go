package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
	"go.uber.org/zap"
)

const redisMetadataPrefix = "authorize-net:metadata"

type redisMetadataRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisMetadataRepository stores each tenant's metadata as one redis hash
func NewRedisMetadataRepository(client *redis.Client, logger *zap.Logger) repository.MetadataRepository {
	return &redisMetadataRepository{
		client: client,
		logger: logger,
	}
}

func redisMetadataKey(tenant string) string {
	return fmt.Sprintf("%s:%s", redisMetadataPrefix, tenant)
}

func (r *redisMetadataRepository) Get(ctx context.Context, tenant, key string) (string, error) {
	value, err := r.client.HGet(ctx, redisMetadataKey(tenant), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		r.logger.Error("Redis HGET failed",
			zap.String("tenant", tenant),
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

func (r *redisMetadataRepository) Set(ctx context.Context, tenant, key, value string) error {
	if err := r.client.HSet(ctx, redisMetadataKey(tenant), key, value).Err(); err != nil {
		r.logger.Error("Redis HSET failed",
			zap.String("tenant", tenant),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}
