package usecase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/service"
)

// NotificationPath is where provider notifications are delivered
const NotificationPath = "/api/webhooks/authorize-net"

// WebhookRegistrationService registers the notification webhook of a provider account once
type WebhookRegistrationService struct {
	configs   *AppConfigService
	providers provider.ClientFactory
	appURL    string
	logger    *zap.Logger
}

func NewWebhookRegistrationService(configs *AppConfigService, providers provider.ClientFactory, appURL string, logger *zap.Logger) *WebhookRegistrationService {
	return &WebhookRegistrationService{
		configs:   configs,
		providers: providers,
		appURL:    strings.TrimRight(appURL, "/"),
		logger:    logger,
	}
}

// NotificationURL returns the delivery URL of one tenant's provider account
func (s *WebhookRegistrationService) NotificationURL(tenant, providerID string) string {
	query := url.Values{}
	query.Set("tenant", tenant)
	query.Set("provider", providerID)
	return s.appURL + NotificationPath + "?" + query.Encode()
}

// RegisterWebhook makes sure the provider account delivers notifications to this app.
// A webhook already registered at the same URL is adopted instead of duplicated.
func (s *WebhookRegistrationService) RegisterWebhook(ctx context.Context, tenant, providerID string) (*entity.WebhookRegistration, error) {
	account, err := s.configs.GetProvider(ctx, tenant, providerID)
	if err != nil {
		return nil, err
	}
	if s.appURL == "" {
		return nil, domainErrors.NewValidationError("app url is not configured", nil)
	}

	target := s.NotificationURL(tenant, providerID)
	if reg := account.WebhookRegistration; reg != nil && reg.URL == target && reg.WebhookID != "" {
		return reg, nil
	}

	client := s.providers.NewClient(account)

	existing, err := client.ListWebhooks(ctx)
	if err != nil {
		return nil, err
	}

	var webhook *provider.Webhook
	for i := range existing {
		if existing[i].URL == target {
			webhook = &existing[i]
			s.logger.Info("Adopting existing provider webhook",
				zap.String("tenant", tenant),
				zap.String("provider_id", providerID),
				zap.String("webhook_id", webhook.WebhookID))
			break
		}
	}

	if webhook == nil {
		webhook, err = client.CreateWebhook(ctx, target, service.NotificationEventTypes)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Provider webhook created",
			zap.String("tenant", tenant),
			zap.String("provider_id", providerID),
			zap.String("webhook_id", webhook.WebhookID))
	}

	registration := entity.WebhookRegistration{
		WebhookID:  webhook.WebhookID,
		URL:        target,
		EventTypes: webhook.EventTypes,
		Status:     webhook.Status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.configs.SetWebhookRegistration(ctx, tenant, providerID, registration); err != nil {
		return nil, err
	}
	return &registration, nil
}
