package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/model"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type notificationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB, logger *zap.Logger) repository.NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

// Claim saves a new notification, or loads the existing row for a redelivery
func (r *notificationRepository) Claim(ctx context.Context, tenant, providerID string, n *entity.ProviderNotification) (*model.ProviderNotification, error) {
	var data model.JSONB
	if raw, err := json.Marshal(n); err == nil {
		if err := json.Unmarshal(raw, &data); err != nil {
			r.logger.Warn("Failed to convert notification payload",
				zap.String("notification_id", n.NotificationID),
				zap.Error(err))
		}
	}

	row := &model.ProviderNotification{
		NotificationID:  n.NotificationID,
		Tenant:          tenant,
		ProviderID:      providerID,
		EventType:       n.EventType,
		ProviderTransID: n.Payload.ID,
		Status:          model.NotificationStatusPending,
		Data:            data,
	}
	if !n.EventDate.IsZero() {
		eventDate := n.EventDate
		row.EventDate = &eventDate
	}

	// ON CONFLICT keeps the first delivery
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	if err != nil {
		r.logger.Error("Failed to save notification",
			zap.String("notification_id", n.NotificationID),
			zap.String("event_type", n.EventType),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}

	var stored model.ProviderNotification
	if err := r.db.WithContext(ctx).
		Where("notification_id = ?", n.NotificationID).
		First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	return &stored, nil
}

// MarkProcessed marks a notification as processed
func (r *notificationRepository) MarkProcessed(ctx context.Context, notificationID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.ProviderNotification{}).
		Where("notification_id = ?", notificationID).
		Updates(map[string]interface{}{
			"status":       model.NotificationStatusCompleted,
			"processed_at": &now,
			"last_error":   nil,
		})
	if result.Error != nil {
		r.logger.Error("Failed to mark notification as processed",
			zap.String("notification_id", notificationID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark notification as processed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found: %s", notificationID)
	}

	return nil
}

// MarkFailed records the error and bumps the attempt counter.
// Redeliveries of failed notifications are processed again.
func (r *notificationRepository) MarkFailed(ctx context.Context, notificationID string, cause error) error {
	errorMsg := cause.Error()

	result := r.db.WithContext(ctx).
		Model(&model.ProviderNotification{}).
		Where("notification_id = ?", notificationID).
		Updates(map[string]interface{}{
			"status":              model.NotificationStatusFailed,
			"last_error":          &errorMsg,
			"processing_attempts": gorm.Expr("processing_attempts + 1"),
		})
	if result.Error != nil {
		r.logger.Error("Failed to mark notification as failed",
			zap.String("notification_id", notificationID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update notification: %w", result.Error)
	}

	return nil
}
