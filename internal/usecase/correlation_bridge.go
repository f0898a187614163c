package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/correlation"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/host"
)

// CorrelationBridge links host transactions to provider transactions in both directions
type CorrelationBridge struct {
	logger *zap.Logger
}

func NewCorrelationBridge(logger *zap.Logger) *CorrelationBridge {
	return &CorrelationBridge{logger: logger}
}

// EncodeForProvider returns the value stored in the provider's order description
func (b *CorrelationBridge) EncodeForProvider(hostTransactionID string) string {
	return correlation.Encode(hostTransactionID)
}

// DecodeFromProvider recovers the host transaction ID from an order description
func (b *CorrelationBridge) DecodeFromProvider(description string) (string, error) {
	return correlation.Decode(description)
}

// PersistProviderTransactionID stores the provider transaction ID in the host transaction's
// private metadata. Later writes overwrite earlier ones.
func (b *CorrelationBridge) PersistProviderTransactionID(ctx context.Context, client host.Client, hostTransactionID, providerTransactionID string) error {
	err := client.UpdatePrivateMetadata(ctx, hostTransactionID, []entity.MetadataItem{
		{Key: correlation.MetadataKey, Value: providerTransactionID},
	})
	if err != nil {
		b.logger.Error("Failed to persist provider transaction id",
			zap.String("transaction_id", hostTransactionID),
			zap.String("provider_transaction_id", providerTransactionID),
			zap.Error(err))
		return fmt.Errorf("failed to persist provider transaction id: %w", err)
	}
	return nil
}

// LookupProviderTransactionID reads the provider transaction ID from the host transaction's private metadata
func (b *CorrelationBridge) LookupProviderTransactionID(transaction entity.Transaction) (string, error) {
	id, ok := correlation.FromMetadata(transaction.PrivateMetadata)
	if !ok {
		return "", domainErrors.NewMissingCorrelationError(transaction.ID)
	}
	return id, nil
}
