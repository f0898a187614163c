package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
)

// applePayDescriptor marks an Apple Pay payment token in opaque data
const applePayDescriptor = "COMMON.APPLE.INAPP.PAYMENT"

// ApplePayData carries the base64 payment token from the Apple Pay sheet
type ApplePayData struct {
	Type         entity.GatewayType `json:"type"`
	PaymentToken string             `json:"paymentToken" validate:"required,base64"`
}

// ApplePayGateway submits Apple Pay tokens directly
type ApplePayGateway struct {
	builder *RequestBuilder
	logger  *zap.Logger
}

var _ Gateway = (*ApplePayGateway)(nil)

func NewApplePayGateway(builder *RequestBuilder, logger *zap.Logger) *ApplePayGateway {
	return &ApplePayGateway{
		builder: builder,
		logger:  logger,
	}
}

func (g *ApplePayGateway) Type() entity.GatewayType {
	return entity.GatewayApplePay
}

func (g *ApplePayGateway) InitializeGateway(_ context.Context, sc *SessionContext) (any, error) {
	return map[string]any{
		"environment": sc.Provider.Environment,
	}, nil
}

func (g *ApplePayGateway) InitializeTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error) {
	var data ApplePayData
	if err := decodeData(sc.Data, &data); err != nil {
		return nil, err
	}

	req, err := g.builder.Build(ctx, sc, BuildOptions{TransactionType: provider.TransactionTypeAuthOnly})
	if err != nil {
		return nil, err
	}
	req.Payment = &provider.Payment{
		OpaqueData: &provider.OpaqueData{
			DataDescriptor: applePayDescriptor,
			DataValue:      data.PaymentToken,
		},
	}

	return submitDirect(ctx, sc, req, g.logger)
}
