package repository

import (
	"context"
	"sync"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
)

// MemoryMetadataRepository keeps metadata in process memory. Used for local runs and tests.
type MemoryMetadataRepository struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

var _ repository.MetadataRepository = (*MemoryMetadataRepository)(nil)

func NewMemoryMetadataRepository() *MemoryMetadataRepository {
	return &MemoryMetadataRepository{
		values: make(map[string]map[string]string),
	}
}

func (r *MemoryMetadataRepository) Get(_ context.Context, tenant, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[tenant][key], nil
}

func (r *MemoryMetadataRepository) Set(_ context.Context, tenant, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values[tenant] == nil {
		r.values[tenant] = make(map[string]string)
	}
	r.values[tenant][key] = value
	return nil
}
