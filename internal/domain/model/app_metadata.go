package model

import "time"

// AppMetadata is one encrypted or plain value stored for a tenant
type AppMetadata struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Tenant    string    `gorm:"column:tenant;not null;size:512;uniqueIndex:idx_app_metadata_tenant_key" json:"tenant"`
	Key       string    `gorm:"column:key;not null;size:100;uniqueIndex:idx_app_metadata_tenant_key" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (AppMetadata) TableName() string {
	return "app_metadata"
}
