package repository

import (
	"context"
)

// Well-known metadata keys
const (
	MetadataKeyAppConfig = "app-config"
	MetadataKeyAppToken  = "app-token"
)

// MetadataRepository is a per-tenant get/set blob store
type MetadataRepository interface {
	// Get returns "" and no error when the key is absent
	Get(ctx context.Context, tenant, key string) (string, error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, tenant, key, value string) error
}
