package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/correlation"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/service"
)

// AcceptHostedInitializeData is the storefront input of the hosted payment form
type AcceptHostedInitializeData struct {
	Type                  entity.GatewayType `json:"type"`
	ReturnURL             string             `json:"returnUrl" validate:"omitempty,url"`
	CancelURL             string             `json:"cancelUrl" validate:"omitempty,url"`
	IframeCommunicatorURL string             `json:"iframeCommunicatorUrl" validate:"omitempty,url"`
	ButtonText            string             `json:"buttonText"`
}

// AcceptHostedProcessData is posted back once the hosted form has finished
type AcceptHostedProcessData struct {
	Type          entity.GatewayType `json:"type"`
	TransactionID string             `json:"transactionId" validate:"required"`
}

// AcceptHostedGateway lets the provider render the payment form.
// Initialization only obtains a form token; the outcome is read back in ProcessTransaction.
type AcceptHostedGateway struct {
	builder *RequestBuilder
	logger  *zap.Logger
}

var (
	_ Gateway                   = (*AcceptHostedGateway)(nil)
	_ TransactionProcessor      = (*AcceptHostedGateway)(nil)
	_ StoredPaymentMethodLister = (*AcceptHostedGateway)(nil)
)

func NewAcceptHostedGateway(builder *RequestBuilder, logger *zap.Logger) *AcceptHostedGateway {
	return &AcceptHostedGateway{
		builder: builder,
		logger:  logger,
	}
}

func (g *AcceptHostedGateway) Type() entity.GatewayType {
	return entity.GatewayAcceptHosted
}

func (g *AcceptHostedGateway) InitializeGateway(_ context.Context, sc *SessionContext) (any, error) {
	return map[string]any{
		"environment": sc.Provider.Environment,
	}, nil
}

func (g *AcceptHostedGateway) InitializeTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error) {
	var data AcceptHostedInitializeData
	if err := decodeData(sc.Data, &data); err != nil {
		return nil, err
	}

	req, err := g.builder.Build(ctx, sc, BuildOptions{
		TransactionType:       provider.TransactionTypeAuthOnly,
		AttachCustomerProfile: true,
	})
	if err != nil {
		return nil, err
	}

	formToken, err := sc.Client.GetHostedPaymentPage(ctx, &provider.HostedPaymentPageRequest{
		Transaction: req,
		Settings:    hostedSettings(data, req.Profile != nil),
	})
	if err != nil {
		return nil, err
	}

	g.logger.Debug("Hosted payment page token issued",
		zap.String("tenant", sc.Tenant),
		zap.String("transaction_id", sc.Transaction.ID))

	return &entity.TransactionSessionResponse{
		Result: entity.ResultAuthorizationActionRequired,
		Amount: sc.Action.Amount,
		Data: map[string]any{
			"formToken":   formToken,
			"environment": sc.Provider.Environment,
		},
	}, nil
}

// ProcessTransaction reads the provider's view of the transaction the form created
func (g *AcceptHostedGateway) ProcessTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error) {
	var data AcceptHostedProcessData
	if err := decodeData(sc.Data, &data); err != nil {
		return nil, err
	}

	details, err := sc.Client.GetTransactionDetails(ctx, data.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := verifyCorrelation(details, sc.Transaction.ID); err != nil {
		return nil, err
	}

	mapping, err := service.MapStatus(details.TransactionStatus)
	if err != nil {
		return nil, err
	}

	return &entity.TransactionSessionResponse{
		PSPReference: details.TransID,
		Result:       mapping.Result,
		Amount:       details.AuthAmount,
		Actions:      mapping.Actions,
	}, nil
}

func (g *AcceptHostedGateway) ListStoredPaymentMethods(ctx context.Context, sc *SessionContext) ([]entity.PaymentMethod, error) {
	return listProfilePaymentMethods(ctx, sc, g.Type())
}

func hostedSettings(data AcceptHostedInitializeData, withProfile bool) map[string]any {
	buttonText := data.ButtonText
	if buttonText == "" {
		buttonText = "Pay"
	}

	settings := map[string]any{
		"hostedPaymentButtonOptions": map[string]any{"text": buttonText},
		"hostedPaymentReturnOptions": map[string]any{
			"showReceipt":   false,
			"url":           data.ReturnURL,
			"urlText":       "Continue",
			"cancelUrl":     data.CancelURL,
			"cancelUrlText": "Cancel",
		},
		"hostedPaymentPaymentOptions": map[string]any{
			"cardCodeRequired": true,
			"showCreditCard":   true,
			"showBankAccount":  false,
		},
		"hostedPaymentCustomerOptions": map[string]any{
			"showEmail":         false,
			"requiredEmail":     false,
			"addPaymentProfile": withProfile,
		},
		"hostedPaymentBillingAddressOptions":  map[string]any{"show": false},
		"hostedPaymentShippingAddressOptions": map[string]any{"show": false},
	}
	if data.IframeCommunicatorURL != "" {
		settings["hostedPaymentIFrameCommunicatorUrl"] = map[string]any{"url": data.IframeCommunicatorURL}
	}
	return settings
}

// verifyCorrelation checks that a provider transaction was created for hostTransactionID
func verifyCorrelation(details *provider.TransactionDetails, hostTransactionID string) error {
	decoded, err := correlation.Decode(details.Order.Description)
	if err != nil {
		return err
	}
	if decoded != hostTransactionID {
		return domainErrors.NewCorrelationMismatchError(hostTransactionID, decoded)
	}
	return nil
}
