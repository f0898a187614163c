package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/model"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type metadataRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMetadataRepository creates a postgres-backed metadata repository
func NewMetadataRepository(db *gorm.DB, logger *zap.Logger) repository.MetadataRepository {
	return &metadataRepository{
		db:     db,
		logger: logger,
	}
}

func (r *metadataRepository) Get(ctx context.Context, tenant, key string) (string, error) {
	var row model.AppMetadata

	err := r.db.WithContext(ctx).
		Where("tenant = ? AND key = ?", tenant, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		r.logger.Error("Failed to get metadata",
			zap.String("tenant", tenant),
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return row.Value, nil
}

func (r *metadataRepository) Set(ctx context.Context, tenant, key, value string) error {
	row := &model.AppMetadata{
		Tenant: tenant,
		Key:    key,
		Value:  value,
	}

	// Last write wins
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant"}, {Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": value, "updated_at": gorm.Expr("now()")}),
		}).
		Create(row).Error
	if err != nil {
		r.logger.Error("Failed to set metadata",
			zap.String("tenant", tenant),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}
