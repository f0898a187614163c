package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/host"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/model"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/service"
)

// NotificationSynchronizerOptions tunes signature enforcement
type NotificationSynchronizerOptions struct {
	// AllowUnverified processes notifications whose signature does not verify.
	// Every such notification is logged with audit=true.
	AllowUnverified bool
}

// NotificationSynchronizer turns provider notifications into host transaction events
type NotificationSynchronizer struct {
	configs       *AppConfigService
	providers     provider.ClientFactory
	hosts         host.ClientFactory
	notifications repository.NotificationRepository
	bridge        *CorrelationBridge
	validate      *validator.Validate
	options       NotificationSynchronizerOptions
	logger        *zap.Logger
}

func NewNotificationSynchronizer(
	configs *AppConfigService,
	providers provider.ClientFactory,
	hosts host.ClientFactory,
	notifications repository.NotificationRepository,
	bridge *CorrelationBridge,
	validate *validator.Validate,
	options NotificationSynchronizerOptions,
	logger *zap.Logger,
) *NotificationSynchronizer {
	return &NotificationSynchronizer{
		configs:       configs,
		providers:     providers,
		hosts:         hosts,
		notifications: notifications,
		bridge:        bridge,
		validate:      validate,
		options:       options,
		logger:        logger,
	}
}

// HandleNotification verifies and applies one notification delivered for providerID.
// Redeliveries of an already applied notification are acknowledged without touching the host.
func (s *NotificationSynchronizer) HandleNotification(ctx context.Context, tenant, providerID string, rawBody []byte, signatureHeader string) error {
	cfg, err := s.configs.Load(ctx, tenant)
	if err != nil {
		return err
	}
	account, ok := cfg.FindProvider(providerID)
	if !ok {
		return domainErrors.NewNoProviderFoundError(providerID)
	}

	if err := service.VerifySignature(rawBody, signatureHeader, account.SignatureKey); err != nil {
		if !s.options.AllowUnverified {
			s.logger.Warn("Rejected provider notification",
				zap.String("tenant", tenant),
				zap.String("provider_id", providerID),
				zap.Error(err))
			return err
		}
		s.logger.Warn("Processing unverified provider notification",
			zap.Bool("audit", true),
			zap.String("tenant", tenant),
			zap.String("provider_id", providerID),
			zap.Error(err))
	}

	var notification entity.ProviderNotification
	if err := json.Unmarshal(rawBody, &notification); err != nil {
		return domainErrors.NewValidationError("notification body is malformed", err)
	}
	if err := s.validate.Struct(&notification); err != nil {
		return domainErrors.NewValidationError("notification body is invalid", err)
	}

	stored, err := s.notifications.Claim(ctx, tenant, providerID, &notification)
	if err != nil {
		return err
	}
	if stored.Status == model.NotificationStatusCompleted {
		s.logger.Info("Notification already processed",
			zap.String("notification_id", notification.NotificationID),
			zap.String("event_type", notification.EventType))
		return nil
	}

	if err := s.apply(ctx, tenant, account, &notification); err != nil {
		if markErr := s.notifications.MarkFailed(ctx, notification.NotificationID, err); markErr != nil {
			s.logger.Error("Failed to record notification failure",
				zap.String("notification_id", notification.NotificationID),
				zap.Error(markErr))
		}
		return err
	}

	return s.notifications.MarkProcessed(ctx, notification.NotificationID)
}

func (s *NotificationSynchronizer) apply(ctx context.Context, tenant string, account *entity.ProviderAccount, n *entity.ProviderNotification) error {
	client := s.providers.NewClient(account)

	details, err := client.GetTransactionDetails(ctx, n.Payload.ID)
	if err != nil {
		return err
	}

	hostTransactionID, err := s.hostTransactionID(ctx, client, details)
	if err != nil {
		return err
	}

	mapping, err := service.MapNotificationEvent(n.EventType, details.TransactionStatus)
	if err != nil {
		return err
	}

	occurredAt := n.EventDate
	if occurredAt.IsZero() {
		occurredAt = details.SubmitTime
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	report := &entity.TransactionEventReport{
		TransactionID:    hostTransactionID,
		Amount:           eventAmount(mapping.Result, details),
		PSPReference:     details.TransID,
		Time:             occurredAt,
		Type:             mapping.Result,
		AvailableActions: mapping.Actions,
	}

	hostClient, err := s.hosts.ForTenant(ctx, tenant)
	if err != nil {
		return err
	}
	if err := hostClient.ReportTransactionEvent(ctx, report); err != nil {
		return fmt.Errorf("failed to report transaction event: %w", err)
	}

	s.logger.Info("Provider notification synchronized",
		zap.String("tenant", tenant),
		zap.String("notification_id", n.NotificationID),
		zap.String("event_type", n.EventType),
		zap.String("transaction_id", hostTransactionID),
		zap.String("result", string(mapping.Result)))

	return nil
}

// hostTransactionID decodes the host ID from the transaction, or from the transaction it refers to.
// Voids carry no order description of their own.
func (s *NotificationSynchronizer) hostTransactionID(ctx context.Context, client provider.TransactionClient, details *provider.TransactionDetails) (string, error) {
	id, err := s.bridge.DecodeFromProvider(details.Order.Description)
	if err == nil {
		return id, nil
	}
	if details.RefTransID == "" || !errors.Is(err, domainErrors.ErrCorrelationDecode) {
		return "", err
	}

	parent, parentErr := client.GetTransactionDetails(ctx, details.RefTransID)
	if parentErr != nil {
		return "", parentErr
	}
	return s.bridge.DecodeFromProvider(parent.Order.Description)
}

func eventAmount(result entity.TransactionResult, details *provider.TransactionDetails) decimal.Decimal {
	switch result {
	case entity.ResultChargeSuccess, entity.ResultRefundSuccess:
		if !details.SettleAmount.IsZero() {
			return details.SettleAmount
		}
	}
	return details.AuthAmount
}
