package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/service"
)

// OpaqueDataInput is the payment nonce produced by the provider's client library
type OpaqueDataInput struct {
	DataDescriptor string `json:"dataDescriptor" validate:"required"`
	DataValue      string `json:"dataValue" validate:"required"`
}

// AcceptJsData charges either a fresh nonce or a stored payment method
type AcceptJsData struct {
	Type            entity.GatewayType `json:"type"`
	OpaqueData      *OpaqueDataInput   `json:"opaqueData" validate:"required_without=PaymentMethodID"`
	PaymentMethodID string             `json:"paymentMethodId" validate:"required_without=OpaqueData"`
}

// AcceptJsGateway submits client-tokenized cards directly; the outcome is known in one round trip
type AcceptJsGateway struct {
	builder *RequestBuilder
	logger  *zap.Logger
}

var (
	_ Gateway                   = (*AcceptJsGateway)(nil)
	_ StoredPaymentMethodLister = (*AcceptJsGateway)(nil)
)

func NewAcceptJsGateway(builder *RequestBuilder, logger *zap.Logger) *AcceptJsGateway {
	return &AcceptJsGateway{
		builder: builder,
		logger:  logger,
	}
}

func (g *AcceptJsGateway) Type() entity.GatewayType {
	return entity.GatewayAcceptJs
}

// InitializeGateway returns the public credentials the client library needs
func (g *AcceptJsGateway) InitializeGateway(_ context.Context, sc *SessionContext) (any, error) {
	return map[string]any{
		"apiLoginId":      sc.Provider.APILoginID,
		"publicClientKey": sc.Provider.PublicClientKey,
		"environment":     sc.Provider.Environment,
	}, nil
}

func (g *AcceptJsGateway) InitializeTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error) {
	var data AcceptJsData
	if err := decodeData(sc.Data, &data); err != nil {
		return nil, err
	}

	if data.PaymentMethodID != "" {
		return g.chargeStoredMethod(ctx, sc, data.PaymentMethodID)
	}

	req, err := g.builder.Build(ctx, sc, BuildOptions{TransactionType: provider.TransactionTypeAuthOnly})
	if err != nil {
		return nil, err
	}
	req.Payment = &provider.Payment{
		OpaqueData: &provider.OpaqueData{
			DataDescriptor: data.OpaqueData.DataDescriptor,
			DataValue:      data.OpaqueData.DataValue,
		},
	}

	return submitDirect(ctx, sc, req, g.logger)
}

func (g *AcceptJsGateway) chargeStoredMethod(ctx context.Context, sc *SessionContext, paymentProfileID string) (*entity.TransactionSessionResponse, error) {
	if sc.SourceObject.CustomerEmail() == "" {
		return nil, domainErrors.NewValidationError("stored payment methods require a customer email", nil)
	}

	req, err := g.builder.Build(ctx, sc, BuildOptions{
		TransactionType:       provider.TransactionTypeAuthOnly,
		AttachCustomerProfile: true,
	})
	if err != nil {
		return nil, err
	}
	req.Profile.PaymentProfile = &provider.PaymentProfileReference{PaymentProfileID: paymentProfileID}

	return submitDirect(ctx, sc, req, g.logger)
}

func (g *AcceptJsGateway) ListStoredPaymentMethods(ctx context.Context, sc *SessionContext) ([]entity.PaymentMethod, error) {
	return listProfilePaymentMethods(ctx, sc, g.Type())
}

// submitDirect sends an authorization and maps its synchronous response code.
// Declines are results, not errors.
func submitDirect(ctx context.Context, sc *SessionContext, req *provider.TransactionRequest, logger *zap.Logger) (*entity.TransactionSessionResponse, error) {
	resp, err := sc.Client.CreateTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	mapping := service.MapResponseCode(resp.ResponseCode)
	result := &entity.TransactionSessionResponse{
		PSPReference: resp.TransID,
		Result:       mapping.Result,
		Amount:       sc.Action.Amount,
		Actions:      mapping.Actions,
	}
	if !resp.Approved() {
		result.Message = resp.FailureMessage()
		logger.Info("Authorization not approved",
			zap.String("tenant", sc.Tenant),
			zap.String("transaction_id", sc.Transaction.ID),
			zap.String("response_code", resp.ResponseCode))
	}
	return result, nil
}
