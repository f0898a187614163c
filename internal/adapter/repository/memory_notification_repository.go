package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/model"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
)

// MemoryNotificationRepository keeps the notification log in process memory.
// It backs deployments without postgres and tests.
type MemoryNotificationRepository struct {
	mu   sync.Mutex
	rows map[string]*model.ProviderNotification
}

var _ repository.NotificationRepository = (*MemoryNotificationRepository)(nil)

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{rows: make(map[string]*model.ProviderNotification)}
}

func (r *MemoryNotificationRepository) Claim(_ context.Context, tenant, providerID string, n *entity.ProviderNotification) (*model.ProviderNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[n.NotificationID]
	if !ok {
		now := time.Now()
		row = &model.ProviderNotification{
			ID:              int64(len(r.rows) + 1),
			NotificationID:  n.NotificationID,
			Tenant:          tenant,
			ProviderID:      providerID,
			EventType:       n.EventType,
			ProviderTransID: n.Payload.ID,
			Status:          model.NotificationStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		r.rows[n.NotificationID] = row
	}
	stored := *row
	return &stored, nil
}

func (r *MemoryNotificationRepository) MarkProcessed(_ context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[notificationID]
	if !ok {
		return fmt.Errorf("notification not found: %s", notificationID)
	}
	now := time.Now()
	row.Status = model.NotificationStatusCompleted
	row.ProcessedAt = &now
	row.LastError = nil
	row.UpdatedAt = now
	return nil
}

func (r *MemoryNotificationRepository) MarkFailed(_ context.Context, notificationID string, cause error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[notificationID]
	if !ok {
		return nil
	}
	msg := cause.Error()
	row.Status = model.NotificationStatusFailed
	row.LastError = &msg
	row.ProcessingAttempts++
	row.UpdatedAt = time.Now()
	return nil
}
