// Package gateway implements the payment flows a storefront can use.
//
// Every variant builds its provider request with the shared RequestBuilder and
// decodes its own part of the app-defined data blob.
package gateway

import (
	"context"
	"encoding/json"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
)

// SessionContext is everything a gateway may use while handling one host event
type SessionContext struct {
	Tenant       string
	Config       *entity.AppConfig
	Provider     *entity.ProviderAccount
	Client       provider.Client
	Action       entity.TransactionAction
	SourceObject entity.SourceObject
	Transaction  entity.Transaction
	Data         json.RawMessage
}

// Gateway is the contract every payment flow implements
type Gateway interface {
	Type() entity.GatewayType

	// InitializeGateway returns public bootstrap data. It never calls the provider.
	InitializeGateway(ctx context.Context, sc *SessionContext) (any, error)

	// InitializeTransaction submits or prepares the authorization
	InitializeTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error)
}

// TransactionProcessor is implemented by flows whose outcome is known only after a second step
type TransactionProcessor interface {
	ProcessTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error)
}

// StoredPaymentMethodLister is implemented by flows that can charge stored cards
type StoredPaymentMethodLister interface {
	ListStoredPaymentMethods(ctx context.Context, sc *SessionContext) ([]entity.PaymentMethod, error)
}

// decodeData unmarshals the gateway-specific data blob and validates required fields
func decodeData(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return domainErrors.NewValidationError("data is required", nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domainErrors.NewValidationError("data is malformed", err)
	}
	if err := validate.Struct(out); err != nil {
		return domainErrors.NewValidationError("data is invalid", err)
	}
	return nil
}
