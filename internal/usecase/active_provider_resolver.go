package usecase

import (
	"context"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
)

// ResolveProvider returns the provider account bound to channelSlug in cfg.
// A connection whose provider was deleted yields ErrNoProviderFound.
func ResolveProvider(cfg *entity.AppConfig, channelSlug string) (*entity.ProviderAccount, error) {
	if channelSlug == "" {
		return nil, domainErrors.NewNoChannelSlugFoundError()
	}

	conn, ok := cfg.FindConnectionByChannel(channelSlug)
	if !ok {
		return nil, domainErrors.NewNoConnectionFoundError(channelSlug)
	}

	account, ok := cfg.FindProvider(conn.ProviderID)
	if !ok {
		return nil, domainErrors.NewNoProviderFoundError(conn.ProviderID)
	}
	return account, nil
}

// ActiveProviderResolver resolves the provider account of a channel from the stored configuration
type ActiveProviderResolver struct {
	configs *AppConfigService
}

func NewActiveProviderResolver(configs *AppConfigService) *ActiveProviderResolver {
	return &ActiveProviderResolver{configs: configs}
}

// Resolve loads the tenant's configuration and resolves channelSlug against it.
// The loaded configuration is returned so one invocation works on a single snapshot.
func (r *ActiveProviderResolver) Resolve(ctx context.Context, tenant, channelSlug string) (*entity.AppConfig, *entity.ProviderAccount, error) {
	cfg, err := r.configs.Load(ctx, tenant)
	if err != nil {
		return nil, nil, err
	}
	account, err := ResolveProvider(cfg, channelSlug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, account, nil
}
