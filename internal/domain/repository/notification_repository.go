package repository

import (
	"context"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/model"
)

// NotificationRepository deduplicates provider notifications by notification ID
type NotificationRepository interface {
	// Claim records the notification and returns the stored row.
	// An existing row is returned untouched so callers can see whether it already completed.
	Claim(ctx context.Context, tenant, providerID string, notification *entity.ProviderNotification) (*model.ProviderNotification, error)
	MarkProcessed(ctx context.Context, notificationID string) error
	MarkFailed(ctx context.Context, notificationID string, err error) error
}
