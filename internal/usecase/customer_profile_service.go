package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
)

// CustomerProfileService maps host customer emails to provider customer profiles.
//
// Concurrent first purchases of one email can both miss the cache and create two
// provider profiles; the mapping ends up holding whichever write lands last.
type CustomerProfileService struct {
	configs *AppConfigService
	logger  *zap.Logger
}

func NewCustomerProfileService(configs *AppConfigService, logger *zap.Logger) *CustomerProfileService {
	return &CustomerProfileService{
		configs: configs,
		logger:  logger,
	}
}

// GetOrCreateProviderCustomerID returns a live provider profile ID for email.
// A cached profile the provider no longer knows is evicted and replaced.
func (s *CustomerProfileService) GetOrCreateProviderCustomerID(ctx context.Context, tenant string, client provider.CustomerProfileClient, email string) (string, error) {
	cachedID, found, err := s.configs.GetCustomerProfile(ctx, tenant, email)
	if err != nil {
		return "", err
	}

	if found {
		_, err := client.GetCustomerProfile(ctx, cachedID)
		switch {
		case err == nil:
			return cachedID, nil
		case errors.Is(err, provider.ErrProfileNotFound):
			s.logger.Info("Evicting stale customer profile mapping",
				zap.String("tenant", tenant),
				zap.String("customer_profile_id", cachedID))
			if err := s.configs.DeleteCustomerProfile(ctx, tenant, email); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("failed to verify customer profile: %w", err)
		}
	}

	profileID, err := client.CreateCustomerProfile(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to create customer profile: %w", err)
	}

	if err := s.configs.UpsertCustomerProfile(ctx, tenant, email, profileID); err != nil {
		return "", err
	}

	s.logger.Info("Customer profile mapped",
		zap.String("tenant", tenant),
		zap.String("customer_profile_id", profileID))

	return profileID, nil
}
