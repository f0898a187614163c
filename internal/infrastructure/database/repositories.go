package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/authorize-net-app/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Metadata      domainRepo.MetadataRepository
	Notifications domainRepo.NotificationRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Metadata:      repository.NewMetadataRepository(db, logger),
		Notifications: repository.NewNotificationRepository(db, logger),
	}
}
