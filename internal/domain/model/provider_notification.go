package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// NotificationStatus represents the processing status of a provider notification
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusCompleted NotificationStatus = "completed"
	NotificationStatusFailed    NotificationStatus = "failed"
)

// Scan implements sql.Scanner interface
func (s *NotificationStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = NotificationStatus(v)
	case []byte:
		*s = NotificationStatus(v)
	default:
		*s = NotificationStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s NotificationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}

// ProviderNotification is the dedup log of asynchronous provider notifications
type ProviderNotification struct {
	ID                 int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	NotificationID     string             `gorm:"unique;not null;size:255;index" json:"notification_id"`
	Tenant             string             `gorm:"not null;size:512;index" json:"tenant"`
	ProviderID         string             `gorm:"size:64" json:"provider_id"`
	EventType          string             `gorm:"not null;size:100;index" json:"event_type"`
	ProviderTransID    string             `gorm:"column:provider_trans_id;size:32" json:"provider_trans_id"`
	Status             NotificationStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Data               JSONB              `gorm:"type:jsonb" json:"data"`
	ProcessingAttempts int                `gorm:"default:0" json:"processing_attempts"`
	LastError          *string            `json:"last_error,omitempty"`
	ProcessedAt        *time.Time         `json:"processed_at,omitempty"`
	EventDate          *time.Time         `json:"event_date,omitempty"`
	CreatedAt          time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ProviderNotification) TableName() string {
	return "provider_notifications"
}
