package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/host"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase/gateway"
)

// maskedExpiration is accepted by the provider for refunds of stored transactions
const maskedExpiration = "XXXX"

// TransactionUsecase handles the synchronous payment events of the host platform
type TransactionUsecase struct {
	resolver  *ActiveProviderResolver
	registry  *gateway.Registry
	providers provider.ClientFactory
	hosts     host.ClientFactory
	bridge    *CorrelationBridge
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewTransactionUsecase(
	resolver *ActiveProviderResolver,
	registry *gateway.Registry,
	providers provider.ClientFactory,
	hosts host.ClientFactory,
	bridge *CorrelationBridge,
	validate *validator.Validate,
	logger *zap.Logger,
) *TransactionUsecase {
	return &TransactionUsecase{
		resolver:  resolver,
		registry:  registry,
		providers: providers,
		hosts:     hosts,
		bridge:    bridge,
		validate:  validate,
		logger:    logger,
	}
}

// sessionFor resolves the channel's provider account and binds a client to it
func (u *TransactionUsecase) sessionFor(ctx context.Context, tenant, channelSlug string) (*gateway.SessionContext, error) {
	cfg, account, err := u.resolver.Resolve(ctx, tenant, channelSlug)
	if err != nil {
		return nil, err
	}
	return &gateway.SessionContext{
		Tenant:   tenant,
		Config:   cfg,
		Provider: account,
		Client:   u.providers.NewClient(account),
	}, nil
}

func (u *TransactionUsecase) validateEvent(event any) error {
	if err := u.validate.Struct(event); err != nil {
		return domainErrors.NewValidationError("event payload is invalid", err)
	}
	return nil
}

// PaymentGatewayInitializeSession returns the bootstrap data of every gateway
func (u *TransactionUsecase) PaymentGatewayInitializeSession(ctx context.Context, tenant string, event *entity.PaymentGatewayInitializeSessionEvent) (*entity.PaymentGatewayInitializeSessionResponse, error) {
	sc, err := u.sessionFor(ctx, tenant, event.SourceObject.Channel.Slug)
	if err != nil {
		return nil, err
	}
	sc.SourceObject = event.SourceObject
	sc.Data = event.Data

	data := make(map[entity.GatewayType]any, len(u.registry.All()))
	for _, g := range u.registry.All() {
		gatewayData, err := g.InitializeGateway(ctx, sc)
		if err != nil {
			return nil, err
		}
		data[g.Type()] = gatewayData
	}
	return &entity.PaymentGatewayInitializeSessionResponse{Data: data}, nil
}

// TransactionInitializeSession starts a payment with the gateway named in the event data
func (u *TransactionUsecase) TransactionInitializeSession(ctx context.Context, tenant string, event *entity.TransactionSessionEvent) (*entity.TransactionSessionResponse, error) {
	if err := u.validateEvent(event); err != nil {
		return nil, err
	}

	g, err := u.registry.ForData(event.Data)
	if err != nil {
		return nil, err
	}

	sc, err := u.sessionFor(ctx, tenant, event.SourceObject.Channel.Slug)
	if err != nil {
		return nil, err
	}
	fillSession(sc, event)

	resp, err := g.InitializeTransaction(ctx, sc)
	if err != nil {
		return nil, err
	}

	if err := u.persistReference(ctx, tenant, event.Transaction.ID, resp.PSPReference); err != nil {
		return nil, err
	}

	u.logger.Info("Transaction session initialized",
		zap.String("tenant", tenant),
		zap.String("gateway", string(g.Type())),
		zap.String("transaction_id", event.Transaction.ID),
		zap.String("result", string(resp.Result)))

	return resp, nil
}

// TransactionProcessSession completes a payment whose outcome was not known at initialization
func (u *TransactionUsecase) TransactionProcessSession(ctx context.Context, tenant string, event *entity.TransactionSessionEvent) (*entity.TransactionSessionResponse, error) {
	if err := u.validateEvent(event); err != nil {
		return nil, err
	}

	g, err := u.registry.ForData(event.Data)
	if err != nil {
		return nil, err
	}
	processor, ok := g.(gateway.TransactionProcessor)
	if !ok {
		return nil, domainErrors.NewValidationError(string(g.Type())+" transactions have no process step", nil)
	}

	sc, err := u.sessionFor(ctx, tenant, event.SourceObject.Channel.Slug)
	if err != nil {
		return nil, err
	}
	fillSession(sc, event)

	resp, err := processor.ProcessTransaction(ctx, sc)
	if errors.Is(err, domainErrors.ErrUnexpectedStatus) {
		u.logger.Warn("Provider transaction is in an unexpected state",
			zap.String("tenant", tenant),
			zap.String("transaction_id", event.Transaction.ID),
			zap.Error(err))
		return &entity.TransactionSessionResponse{
			Result:  entity.ResultAuthorizationFailure,
			Amount:  event.Action.Amount,
			Message: err.Error(),
			Actions: []entity.AvailableAction{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := u.persistReference(ctx, tenant, event.Transaction.ID, resp.PSPReference); err != nil {
		return nil, err
	}
	return resp, nil
}

func fillSession(sc *gateway.SessionContext, event *entity.TransactionSessionEvent) {
	sc.Action = event.Action
	sc.SourceObject = event.SourceObject
	sc.Transaction = event.Transaction
	sc.Data = event.Data
}

func (u *TransactionUsecase) persistReference(ctx context.Context, tenant, hostTransactionID, providerTransactionID string) error {
	if providerTransactionID == "" {
		return nil
	}
	client, err := u.hosts.ForTenant(ctx, tenant)
	if err != nil {
		return err
	}
	return u.bridge.PersistProviderTransactionID(ctx, client, hostTransactionID, providerTransactionID)
}

// surfaced reports whether err must reach the host as an error instead of a failure result
func surfaced(err error) bool {
	switch domainErrors.KindOf(err) {
	case domainErrors.KindConfiguration, domainErrors.KindValidation:
		return true
	default:
		return false
	}
}

// TransactionCancelationRequested voids the provider transaction behind a host transaction
func (u *TransactionUsecase) TransactionCancelationRequested(ctx context.Context, tenant string, event *entity.TransactionActionRequestedEvent) (*entity.TransactionActionResponse, error) {
	sc, err := u.sessionFor(ctx, tenant, event.SourceObject.Channel.Slug)
	if err != nil {
		return nil, err
	}

	resp, err := u.void(ctx, sc, event)
	if err != nil {
		if surfaced(err) {
			return nil, err
		}
		u.logger.Warn("Cancelation failed",
			zap.String("tenant", tenant),
			zap.String("transaction_id", event.Transaction.ID),
			zap.Error(err))
		return &entity.TransactionActionResponse{
			PSPReference: event.Transaction.PSPReference,
			Result:       entity.ResultCancelFailure,
			Amount:       event.Action.Amount,
			Message:      err.Error(),
		}, nil
	}
	return resp, nil
}

func (u *TransactionUsecase) void(ctx context.Context, sc *gateway.SessionContext, event *entity.TransactionActionRequestedEvent) (*entity.TransactionActionResponse, error) {
	refTransID, err := u.bridge.LookupProviderTransactionID(event.Transaction)
	if err != nil {
		return nil, err
	}

	resp, err := sc.Client.CreateTransaction(ctx, &provider.TransactionRequest{
		TransactionType: provider.TransactionTypeVoid,
		RefTransID:      refTransID,
	})
	if err != nil {
		return nil, err
	}

	return actionResponse(resp, refTransID, event.Action, entity.ResultCancelSuccess, entity.ResultCancelFailure), nil
}

// TransactionRefundRequested refunds part or all of a settled provider transaction
func (u *TransactionUsecase) TransactionRefundRequested(ctx context.Context, tenant string, event *entity.TransactionActionRequestedEvent) (*entity.TransactionActionResponse, error) {
	sc, err := u.sessionFor(ctx, tenant, event.SourceObject.Channel.Slug)
	if err != nil {
		return nil, err
	}

	resp, err := u.refund(ctx, sc, event)
	if err != nil {
		if surfaced(err) {
			return nil, err
		}
		u.logger.Warn("Refund failed",
			zap.String("tenant", tenant),
			zap.String("transaction_id", event.Transaction.ID),
			zap.Error(err))
		return &entity.TransactionActionResponse{
			PSPReference: event.Transaction.PSPReference,
			Result:       entity.ResultRefundFailure,
			Amount:       event.Action.Amount,
			Message:      err.Error(),
		}, nil
	}
	return resp, nil
}

func (u *TransactionUsecase) refund(ctx context.Context, sc *gateway.SessionContext, event *entity.TransactionActionRequestedEvent) (*entity.TransactionActionResponse, error) {
	refTransID, err := u.bridge.LookupProviderTransactionID(event.Transaction)
	if err != nil {
		return nil, err
	}

	details, err := sc.Client.GetTransactionDetails(ctx, refTransID)
	if err != nil {
		return nil, err
	}

	amount := event.Action.Amount.Round(2)
	resp, err := sc.Client.CreateTransaction(ctx, &provider.TransactionRequest{
		TransactionType: provider.TransactionTypeRefund,
		Amount:          &amount,
		Payment:         refundPayment(details),
		RefTransID:      refTransID,
		Order:           &provider.Order{Description: u.bridge.EncodeForProvider(event.Transaction.ID)},
	})
	if err != nil {
		return nil, err
	}

	return actionResponse(resp, refTransID, event.Action, entity.ResultRefundSuccess, entity.ResultRefundFailure), nil
}

// refundPayment identifies the original instrument the way the refund API expects
func refundPayment(details *provider.TransactionDetails) *provider.Payment {
	card := details.Payment.CreditCard
	if card == nil || card.CardNumber == "" {
		return &provider.Payment{PayPal: &provider.PayPal{}}
	}
	number := card.CardNumber
	if len(number) > 4 {
		number = number[len(number)-4:]
	}
	return &provider.Payment{
		CreditCard: &provider.CreditCard{
			CardNumber:     number,
			ExpirationDate: maskedExpiration,
		},
	}
}

func actionResponse(resp *provider.TransactionResponse, refTransID string, action entity.TransactionAction, success, failure entity.TransactionResult) *entity.TransactionActionResponse {
	pspReference := resp.TransID
	if pspReference == "" || pspReference == "0" {
		pspReference = refTransID
	}
	if resp.Approved() {
		return &entity.TransactionActionResponse{
			PSPReference: pspReference,
			Result:       success,
			Amount:       action.Amount,
		}
	}
	return &entity.TransactionActionResponse{
		PSPReference: pspReference,
		Result:       failure,
		Amount:       action.Amount,
		Message:      resp.FailureMessage(),
	}
}

// ListStoredPaymentMethods asks every gateway that supports stored cards in parallel.
// A card offered by several gateways is listed once, under the first registered gateway.
func (u *TransactionUsecase) ListStoredPaymentMethods(ctx context.Context, tenant string, event *entity.ListStoredPaymentMethodsEvent) (*entity.ListStoredPaymentMethodsResponse, error) {
	sc, err := u.sessionFor(ctx, tenant, event.Channel.Slug)
	if err != nil {
		return nil, err
	}
	user := event.User
	sc.SourceObject = entity.SourceObject{User: &user, Channel: event.Channel}
	sc.Action = entity.TransactionAction{Amount: event.Amount, Currency: event.Currency}

	gateways := u.registry.All()
	results := make([][]entity.PaymentMethod, len(gateways))

	var mu sync.Mutex
	var failures []error

	eg, egCtx := errgroup.WithContext(ctx)
	for i, g := range gateways {
		lister, ok := g.(gateway.StoredPaymentMethodLister)
		if !ok {
			continue
		}
		i, g := i, g
		eg.Go(func() error {
			methods, err := lister.ListStoredPaymentMethods(egCtx, sc)
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				u.logger.Warn("Failed to list stored payment methods",
					zap.String("tenant", tenant),
					zap.String("gateway", string(g.Type())),
					zap.Error(err))
				return nil
			}
			results[i] = methods
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	methods := []entity.PaymentMethod{}
	for _, batch := range results {
		for _, m := range batch {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			methods = append(methods, m)
		}
	}

	if len(methods) == 0 && len(failures) > 0 {
		return nil, failures[0]
	}
	return &entity.ListStoredPaymentMethodsResponse{PaymentMethods: methods}, nil
}
