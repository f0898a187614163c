package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
)

// ConfigCipher seals the configuration blob for one tenant
type ConfigCipher interface {
	Encrypt(tenant, plaintext string) (string, error)
	Decrypt(tenant, sealed string) (string, error)
}

// AppConfigService is the configuration store of a tenant.
//
// Every mutation loads the whole blob, changes it and writes it back. There is no
// locking: two concurrent mutations of the same tenant lose the earlier write.
type AppConfigService struct {
	repo     repository.MetadataRepository
	cipher   ConfigCipher
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAppConfigService creates a new configuration store
func NewAppConfigService(
	repo repository.MetadataRepository,
	cipher ConfigCipher,
	validate *validator.Validate,
	logger *zap.Logger,
) *AppConfigService {
	return &AppConfigService{
		repo:     repo,
		cipher:   cipher,
		validate: validate,
		logger:   logger,
	}
}

// Load returns the tenant's configuration, or an empty one if nothing was saved yet
func (s *AppConfigService) Load(ctx context.Context, tenant string) (*entity.AppConfig, error) {
	sealed, err := s.repo.Get(ctx, tenant, repository.MetadataKeyAppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to read app config: %w", err)
	}
	if sealed == "" {
		return entity.NewAppConfig(), nil
	}

	plain, err := s.cipher.Decrypt(tenant, sealed)
	if err != nil {
		s.logger.Error("Failed to decrypt app config",
			zap.String("tenant", tenant),
			zap.Error(err))
		return nil, fmt.Errorf("failed to decrypt app config: %w", err)
	}

	cfg := entity.NewAppConfig()
	if err := json.Unmarshal([]byte(plain), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	return cfg, nil
}

// Save overwrites the tenant's configuration
func (s *AppConfigService) Save(ctx context.Context, tenant string, cfg *entity.AppConfig) error {
	plain, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize app config: %w", err)
	}

	sealed, err := s.cipher.Encrypt(tenant, string(plain))
	if err != nil {
		return fmt.Errorf("failed to encrypt app config: %w", err)
	}

	if err := s.repo.Set(ctx, tenant, repository.MetadataKeyAppConfig, sealed); err != nil {
		return fmt.Errorf("failed to write app config: %w", err)
	}
	return nil
}

// mutate runs fn on a freshly loaded configuration and saves the result when fn succeeds
func (s *AppConfigService) mutate(ctx context.Context, tenant string, fn func(cfg *entity.AppConfig) error) error {
	cfg, err := s.Load(ctx, tenant)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return s.Save(ctx, tenant, cfg)
}

func (s *AppConfigService) validateInput(input entity.ProviderAccountInput) error {
	if err := s.validate.Struct(input); err != nil {
		return domainErrors.NewValidationError("invalid provider account", err)
	}
	return nil
}

// AddProvider stores a new provider account. Each call creates a new account, even for identical input.
func (s *AppConfigService) AddProvider(ctx context.Context, tenant string, input entity.ProviderAccountInput) (*entity.ProviderAccount, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var account entity.ProviderAccount
	err := s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		account = cfg.AddProvider(input)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Provider account added",
		zap.String("tenant", tenant),
		zap.String("provider_id", account.ID),
		zap.String("environment", string(account.Environment)))

	return &account, nil
}

// GetProvider returns one provider account
func (s *AppConfigService) GetProvider(ctx context.Context, tenant, id string) (*entity.ProviderAccount, error) {
	cfg, err := s.Load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	account, ok := cfg.FindProvider(id)
	if !ok {
		return nil, domainErrors.NewNoProviderFoundError(id)
	}
	return account, nil
}

// ListProviders returns every provider account of the tenant
func (s *AppConfigService) ListProviders(ctx context.Context, tenant string) ([]entity.ProviderAccount, error) {
	cfg, err := s.Load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return cfg.Providers, nil
}

// UpdateProvider replaces an account's credentials
func (s *AppConfigService) UpdateProvider(ctx context.Context, tenant, id string, input entity.ProviderAccountInput) (*entity.ProviderAccount, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var updated entity.ProviderAccount
	err := s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		account, ok := cfg.UpdateProvider(id, input)
		if !ok {
			return domainErrors.NewNoProviderFoundError(id)
		}
		updated = *account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProvider removes an account. Connections that reference it stay and fail at resolution time.
func (s *AppConfigService) DeleteProvider(ctx context.Context, tenant, id string) error {
	err := s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		if !cfg.RemoveProvider(id) {
			return domainErrors.NewNoProviderFoundError(id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Provider account deleted",
		zap.String("tenant", tenant),
		zap.String("provider_id", id))
	return nil
}

// SetConnection binds a channel to a provider account
func (s *AppConfigService) SetConnection(ctx context.Context, tenant, channelSlug, providerID string) (*entity.ChannelConnection, error) {
	if channelSlug == "" {
		return nil, domainErrors.NewNoChannelSlugFoundError()
	}
	if providerID == "" {
		return nil, domainErrors.NewValidationError("providerId is required", nil)
	}

	var conn entity.ChannelConnection
	err := s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		conn = cfg.SetConnection(channelSlug, providerID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteConnection removes a channel binding by its ID
func (s *AppConfigService) DeleteConnection(ctx context.Context, tenant, id string) error {
	return s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		if !cfg.RemoveConnection(id) {
			return domainErrors.NewConnectionNotFoundError(id)
		}
		return nil
	})
}

// ListConnections returns every channel binding of the tenant
func (s *AppConfigService) ListConnections(ctx context.Context, tenant string) ([]entity.ChannelConnection, error) {
	cfg, err := s.Load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return cfg.Connections, nil
}

// GetCustomerProfile returns the cached provider profile ID for email
func (s *AppConfigService) GetCustomerProfile(ctx context.Context, tenant, email string) (string, bool, error) {
	cfg, err := s.Load(ctx, tenant)
	if err != nil {
		return "", false, err
	}
	id, ok := cfg.FindCustomerProfile(email)
	return id, ok, nil
}

// UpsertCustomerProfile caches a provider profile ID for email
func (s *AppConfigService) UpsertCustomerProfile(ctx context.Context, tenant, email, profileID string) error {
	return s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		cfg.UpsertCustomerProfile(email, profileID)
		return nil
	})
}

// DeleteCustomerProfile drops the cached mapping for email
func (s *AppConfigService) DeleteCustomerProfile(ctx context.Context, tenant, email string) error {
	return s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		cfg.RemoveCustomerProfile(email)
		return nil
	})
}

// SetWebhookRegistration records the webhook registered for a provider account
func (s *AppConfigService) SetWebhookRegistration(ctx context.Context, tenant, providerID string, registration entity.WebhookRegistration) error {
	return s.mutate(ctx, tenant, func(cfg *entity.AppConfig) error {
		if !cfg.SetWebhookRegistration(providerID, registration) {
			return domainErrors.NewNoProviderFoundError(providerID)
		}
		return nil
	})
}
