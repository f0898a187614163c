package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	handlers "github.com/wekeepgrowing/authorize-net-app/internal/adapter/handler/http"
	"github.com/wekeepgrowing/authorize-net-app/internal/adapter/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	hostMocks "github.com/wekeepgrowing/authorize-net-app/internal/domain/host/mocks"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider/mocks"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/service"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/crypto"
	"github.com/wekeepgrowing/authorize-net-app/internal/middleware/auth"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase/gateway"
)

const (
	testTenant   = "https://shop.example.com/graphql/"
	hostSecret   = "host-secret"
	adminSecret  = "admin-secret"
	signatureKey = "SIGKEY"
)

type fixture struct {
	echo    *echo.Echo
	configs *usecase.AppConfigService
	client  *mocks.Client
	host    *hostMocks.Client
	account *entity.ProviderAccount
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	validate := validator.New(validator.WithRequiredStructEnabled())

	cipher, err := crypto.NewAESEncryptionService(strings.Repeat("0f", 32))
	require.NoError(t, err)
	configs := usecase.NewAppConfigService(repository.NewMemoryMetadataRepository(), cipher, validate, logger)

	account, err := configs.AddProvider(ctx, testTenant, entity.ProviderAccountInput{
		Name:           "main",
		APILoginID:     "login",
		TransactionKey: "transaction-key",
		SignatureKey:   signatureKey,
		Environment:    entity.EnvironmentSandbox,
	})
	require.NoError(t, err)
	_, err = configs.SetConnection(ctx, testTenant, "ch1", account.ID)
	require.NoError(t, err)

	client := new(mocks.Client)
	hostClient := new(hostMocks.Client)
	providers := &mocks.ClientFactory{Client: client}
	hosts := &hostMocks.ClientFactory{Client: hostClient}
	bridge := usecase.NewCorrelationBridge(logger)

	builder := gateway.NewRequestBuilder(usecase.NewCustomerProfileService(configs, logger), logger)
	transactions := usecase.NewTransactionUsecase(
		usecase.NewActiveProviderResolver(configs),
		gateway.NewRegistry(gateway.NewAcceptHostedGateway(builder, logger), gateway.NewAcceptJsGateway(builder, logger)),
		providers, hosts, bridge, validate, logger,
	)
	synchronizer := usecase.NewNotificationSynchronizer(configs, providers, hosts, repository.NewMemoryNotificationRepository(), bridge, validate, usecase.NotificationSynchronizerOptions{}, logger)
	webhooks := usecase.NewWebhookRegistrationService(configs, providers, "https://app.example.com", logger)

	sync := handlers.NewSyncWebhookHandler(transactions, time.Second, logger)
	notifications := handlers.NewNotificationHandler(synchronizer, logger)
	admin := handlers.NewAdminHandler(configs, webhooks, logger)

	e := echo.New()
	hooks := e.Group("/api/webhooks")
	hooks.POST("/authorize-net", notifications.HandleNotification)
	signed := hooks.Group("", auth.HostSignatureMiddleware(auth.HostSignatureConfig{Secret: hostSecret, Logger: logger}))
	signed.POST("/transaction-cancelation-requested", sync.TransactionCancelationRequested)
	signed.POST("/list-stored-payment-methods", sync.ListStoredPaymentMethods)

	v1 := e.Group("/api/v1", auth.JWTMiddleware(auth.JWTConfig{Secret: adminSecret, Logger: logger}))
	v1.GET("/providers", admin.ListProviders)
	v1.POST("/providers", admin.CreateProvider)
	v1.GET("/providers/:id", admin.GetProvider)
	v1.PUT("/connections", admin.SetConnection)

	return &fixture{echo: e, configs: configs, client: client, host: hostClient, account: account}
}

func (f *fixture) signedHook(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	signature, err := auth.SignDetachedJWS([]byte(body), []byte(hostSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(auth.HeaderHostAPIURL, testTenant)
	req.Header.Set(auth.HeaderHostSignature, signature)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) admin(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":            "staff-1",
		auth.TenantClaim: testTenant,
		"exp":            time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestSyncWebhookHandler(t *testing.T) {
	const cancelBody = `{"action":{"amount":"10.00","currency":"USD","actionType":"CANCEL"},"sourceObject":{"channel":{"slug":"%s"}},"transaction":{"id":"txn-1","privateMetadata":[{"key":"authorizeTransactionId","value":"60001"}]}}`

	t.Run("cancelation voids the stored transaction", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req *provider.TransactionRequest) bool {
			return req.TransactionType == provider.TransactionTypeVoid && req.RefTransID == "60001"
		})).Return(&provider.TransactionResponse{ResponseCode: provider.ResponseCodeApproved, TransID: "60002"}, nil)

		rec := f.signedHook(t, "/api/webhooks/transaction-cancelation-requested", strings.Replace(cancelBody, "%s", "ch1", 1))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"result":"CANCEL_SUCCESS"`)
	})

	t.Run("unbound channel is a configuration error", func(t *testing.T) {
		f := newFixture(t)

		rec := f.signedHook(t, "/api/webhooks/transaction-cancelation-requested", strings.Replace(cancelBody, "%s", "other", 1))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_CONNECTION_FOUND")
		f.client.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("unsigned request is rejected", func(t *testing.T) {
		f := newFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/transaction-cancelation-requested", strings.NewReader(`{}`))
		req.Header.Set(auth.HeaderHostAPIURL, testTenant)
		rec := httptest.NewRecorder()

		f.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFixture(t)

		rec := f.signedHook(t, "/api/webhooks/list-stored-payment-methods", `{"channel":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotificationHandler(t *testing.T) {
	body := `{"notificationId":"n-1","eventType":"net.authorize.payment.authorization.created","eventDate":"2026-05-01T10:00:00.000Z","webhookId":"wh-1","payload":{"entityName":"transaction","id":"60001"}}`

	post := func(f *fixture, query, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/authorize-net"+query, strings.NewReader(body))
		if signature != "" {
			req.Header.Set(handlers.HeaderProviderSignature, signature)
		}
		rec := httptest.NewRecorder()
		f.echo.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing query parameters", func(t *testing.T) {
		f := newFixture(t)

		rec := post(f, "", service.Sign([]byte(body), signatureKey))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		f := newFixture(t)

		rec := post(f, "?tenant="+testTenant+"&provider="+f.account.ID, "sha512=00")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.client.AssertNotCalled(t, "GetTransactionDetails", mock.Anything, mock.Anything)
	})

	t.Run("provider failure asks for redelivery", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("GetTransactionDetails", mock.Anything, "60001").Return(nil, assert.AnError)

		rec := post(f, "?tenant="+testTenant+"&provider="+f.account.ID, service.Sign([]byte(body), signatureKey))

		assert.GreaterOrEqual(t, rec.Code, http.StatusInternalServerError)
	})
}

func TestAdminHandler(t *testing.T) {
	t.Run("providers are listed without secrets", func(t *testing.T) {
		f := newFixture(t)

		rec := f.admin(t, http.MethodGet, "/api/v1/providers", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "transaction-key")
		assert.Contains(t, rec.Body.String(), f.account.ID)
	})

	t.Run("create validates input", func(t *testing.T) {
		f := newFixture(t)

		rec := f.admin(t, http.MethodPost, "/api/v1/providers", `{"apiLoginId":"x","transactionKey":"y","environment":"staging"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create", func(t *testing.T) {
		f := newFixture(t)

		rec := f.admin(t, http.MethodPost, "/api/v1/providers", `{"name":"second","apiLoginId":"x","transactionKey":"secret-value","environment":"production"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret-value")
		providers, err := f.configs.ListProviders(context.Background(), testTenant)
		require.NoError(t, err)
		assert.Len(t, providers, 2)
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := newFixture(t)

		rec := f.admin(t, http.MethodGet, "/api/v1/providers/missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("connection without a channel", func(t *testing.T) {
		f := newFixture(t)

		rec := f.admin(t, http.MethodPut, "/api/v1/connections", `{"providerId":"x"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("requires a token", func(t *testing.T) {
		f := newFixture(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
		rec := httptest.NewRecorder()

		f.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
