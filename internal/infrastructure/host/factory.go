package host

import (
	"context"
	"net/http"
	"time"

	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/host"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/crypto"
	"go.uber.org/zap"
)

// Factory builds host clients from the app token stored for each tenant
type Factory struct {
	metadata   repository.MetadataRepository
	encryption crypto.EncryptionService
	httpClient *http.Client
	logger     *zap.Logger
}

var _ host.ClientFactory = (*Factory)(nil)

func NewFactory(metadata repository.MetadataRepository, encryption crypto.EncryptionService, timeout time.Duration, logger *zap.Logger) *Factory {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Factory{
		metadata:   metadata,
		encryption: encryption,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ForTenant returns a client authenticated with the tenant's app token
func (f *Factory) ForTenant(ctx context.Context, tenant string) (host.Client, error) {
	sealed, err := f.metadata.Get(ctx, tenant, repository.MetadataKeyAppToken)
	if err != nil {
		return nil, err
	}
	if sealed == "" {
		return nil, domainErrors.NewInvariantViolationError("no app token registered for tenant")
	}

	token, err := f.encryption.Decrypt(tenant, sealed)
	if err != nil {
		f.logger.Error("Failed to decrypt app token",
			zap.String("tenant", tenant),
			zap.Error(err))
		return nil, domainErrors.NewInvariantViolationError("app token cannot be decrypted")
	}

	return NewClient(tenant, token, f.httpClient, f.logger), nil
}

// StoreToken seals token and saves it as the tenant's app token
func StoreToken(ctx context.Context, metadata repository.MetadataRepository, encryption crypto.EncryptionService, tenant, token string) error {
	sealed, err := encryption.Encrypt(tenant, token)
	if err != nil {
		return err
	}
	return metadata.Set(ctx, tenant, repository.MetadataKeyAppToken, sealed)
}
