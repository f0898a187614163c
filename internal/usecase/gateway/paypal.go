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

// PayPalInitializeData holds the URLs PayPal sends the buyer back to
type PayPalInitializeData struct {
	Type       entity.GatewayType `json:"type"`
	SuccessURL string             `json:"successUrl" validate:"required,url"`
	CancelURL  string             `json:"cancelUrl" validate:"required,url"`
}

// PayPalProcessData is the continuation posted after the buyer approved on PayPal
type PayPalProcessData struct {
	Type          entity.GatewayType `json:"type"`
	PayerID       string             `json:"payerId" validate:"required"`
	TransactionID string             `json:"transactionId"`
}

// PayPalGateway redirects the buyer to PayPal and completes the authorization on return
type PayPalGateway struct {
	builder *RequestBuilder
	logger  *zap.Logger
}

var (
	_ Gateway              = (*PayPalGateway)(nil)
	_ TransactionProcessor = (*PayPalGateway)(nil)
)

func NewPayPalGateway(builder *RequestBuilder, logger *zap.Logger) *PayPalGateway {
	return &PayPalGateway{
		builder: builder,
		logger:  logger,
	}
}

func (g *PayPalGateway) Type() entity.GatewayType {
	return entity.GatewayPayPal
}

func (g *PayPalGateway) InitializeGateway(_ context.Context, sc *SessionContext) (any, error) {
	return map[string]any{
		"environment": sc.Provider.Environment,
	}, nil
}

// InitializeTransaction starts the authorization and returns the PayPal approval URL
func (g *PayPalGateway) InitializeTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error) {
	var data PayPalInitializeData
	if err := decodeData(sc.Data, &data); err != nil {
		return nil, err
	}

	req, err := g.builder.Build(ctx, sc, BuildOptions{TransactionType: provider.TransactionTypeAuthOnly})
	if err != nil {
		return nil, err
	}
	req.Payment = &provider.Payment{
		PayPal: &provider.PayPal{
			SuccessURL: data.SuccessURL,
			CancelURL:  data.CancelURL,
		},
	}

	resp, err := sc.Client.CreateTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.SecureAcceptanceURL == "" {
		return &entity.TransactionSessionResponse{
			PSPReference: resp.TransID,
			Result:       entity.ResultAuthorizationFailure,
			Amount:       sc.Action.Amount,
			Message:      resp.FailureMessage(),
			Actions:      []entity.AvailableAction{},
		}, nil
	}

	return &entity.TransactionSessionResponse{
		PSPReference: resp.TransID,
		Result:       entity.ResultAuthorizationActionRequired,
		Amount:       sc.Action.Amount,
		ExternalURL:  resp.SecureAcceptanceURL,
		Data: map[string]any{
			"secureAcceptanceUrl": resp.SecureAcceptanceURL,
			"transactionId":       resp.TransID,
		},
	}, nil
}

// ProcessTransaction continues the authorization with the payer PayPal returned
func (g *PayPalGateway) ProcessTransaction(ctx context.Context, sc *SessionContext) (*entity.TransactionSessionResponse, error) {
	var data PayPalProcessData
	if err := decodeData(sc.Data, &data); err != nil {
		return nil, err
	}

	refTransID, err := pendingTransactionID(sc, data.TransactionID)
	if err != nil {
		return nil, err
	}

	details, err := sc.Client.GetTransactionDetails(ctx, refTransID)
	if err != nil {
		return nil, err
	}
	if err := verifyCorrelation(details, sc.Transaction.ID); err != nil {
		return nil, err
	}

	resp, err := sc.Client.CreateTransaction(ctx, &provider.TransactionRequest{
		TransactionType: provider.TransactionTypeAuthOnlyContinue,
		Payment: &provider.Payment{
			PayPal: &provider.PayPal{PayerID: data.PayerID},
		},
		RefTransID: refTransID,
	})
	if err != nil {
		return nil, err
	}

	mapping := service.MapResponseCode(resp.ResponseCode)
	pspReference := resp.TransID
	if pspReference == "" {
		pspReference = refTransID
	}

	result := &entity.TransactionSessionResponse{
		PSPReference: pspReference,
		Result:       mapping.Result,
		Amount:       sc.Action.Amount,
		Actions:      mapping.Actions,
	}
	if !resp.Approved() {
		result.Message = resp.FailureMessage()
	}
	return result, nil
}

// pendingTransactionID finds the provider transaction started by InitializeTransaction
func pendingTransactionID(sc *SessionContext, fromData string) (string, error) {
	if fromData != "" {
		return fromData, nil
	}
	if sc.Transaction.PSPReference != "" {
		return sc.Transaction.PSPReference, nil
	}
	if id, ok := correlation.FromMetadata(sc.Transaction.PrivateMetadata); ok {
		return id, nil
	}
	return "", domainErrors.NewMissingCorrelationError(sc.Transaction.ID)
}
