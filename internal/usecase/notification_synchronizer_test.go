package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/adapter/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/correlation"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	hostMocks "github.com/wekeepgrowing/authorize-net-app/internal/domain/host/mocks"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider/mocks"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/service"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
)

type notificationFixture struct {
	store         *testStore
	account       *entity.ProviderAccount
	client        *mocks.Client
	host          *hostMocks.Client
	notifications *repository.MemoryNotificationRepository
	synchronizer  *usecase.NotificationSynchronizer
}

func newNotificationFixture(t *testing.T, allowUnverified bool) *notificationFixture {
	t.Helper()
	logger := zap.NewNop()

	store := newTestStore(t)
	account := store.seedProvider(t, "ch1")
	client := new(mocks.Client)
	hostClient := new(hostMocks.Client)
	notifications := repository.NewMemoryNotificationRepository()

	return &notificationFixture{
		store:         store,
		account:       account,
		client:        client,
		host:          hostClient,
		notifications: notifications,
		synchronizer: usecase.NewNotificationSynchronizer(
			store.configs,
			&mocks.ClientFactory{Client: client},
			&hostMocks.ClientFactory{Client: hostClient},
			notifications,
			usecase.NewCorrelationBridge(logger),
			validator.New(validator.WithRequiredStructEnabled()),
			usecase.NotificationSynchronizerOptions{AllowUnverified: allowUnverified},
			logger,
		),
	}
}

func notificationBody(notificationID, eventType, transID string) []byte {
	return []byte(fmt.Sprintf(`{"notificationId":%q,"eventType":%q,"eventDate":"2026-05-01T10:00:00.000Z","webhookId":"wh-1","payload":{"entityName":"transaction","id":%q}}`,
		notificationID, eventType, transID))
}

func (f *notificationFixture) sign(body []byte) string {
	return service.Sign(body, f.account.SignatureKey)
}

func TestNotificationSynchronizer_HandleNotification(t *testing.T) {
	ctx := context.Background()
	details := &provider.TransactionDetails{
		TransID:           "60001",
		TransactionStatus: "authorizedPendingCapture",
		AuthAmount:        decimal.RequireFromString("42.50"),
		Order:             provider.Order{Description: correlation.Encode(hostTransactionID)},
	}

	t.Run("reports the mapped event to the host", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-1", service.EventAuthorizationCreated, "60001")

		f.client.On("GetTransactionDetails", ctx, "60001").Return(details, nil)
		f.host.On("ReportTransactionEvent", ctx, mock.MatchedBy(func(report *entity.TransactionEventReport) bool {
			return report.TransactionID == hostTransactionID &&
				report.PSPReference == "60001" &&
				report.Type == entity.ResultAuthorizationSuccess &&
				report.Amount.Equal(decimal.RequireFromString("42.50")) &&
				report.Time.Equal(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
		})).Return(nil).Once()

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body))

		require.NoError(t, err)
		f.host.AssertExpectations(t)
	})

	t.Run("redelivery does not report twice", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-1", service.EventAuthorizationCreated, "60001")

		f.client.On("GetTransactionDetails", ctx, "60001").Return(details, nil)
		f.host.On("ReportTransactionEvent", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body)))
		require.NoError(t, f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body)))

		f.host.AssertNumberOfCalls(t, "ReportTransactionEvent", 1)
		f.client.AssertNumberOfCalls(t, "GetTransactionDetails", 1)
	})

	t.Run("failed notification is retried on redelivery", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-1", service.EventAuthorizationCreated, "60001")

		f.client.On("GetTransactionDetails", ctx, "60001").Return(details, nil)
		f.host.On("ReportTransactionEvent", ctx, mock.Anything).Return(errors.New("host unavailable")).Once()
		f.host.On("ReportTransactionEvent", ctx, mock.Anything).Return(nil).Once()

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body))
		require.Error(t, err)

		err = f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body))
		require.NoError(t, err)
		f.host.AssertNumberOfCalls(t, "ReportTransactionEvent", 2)
	})

	t.Run("bad signature is rejected before any lookup", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-1", service.EventAuthorizationCreated, "60001")

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, "sha512=00")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidSignature)
		f.client.AssertNotCalled(t, "GetTransactionDetails", mock.Anything, mock.Anything)
		f.host.AssertNotCalled(t, "ReportTransactionEvent", mock.Anything, mock.Anything)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-1", service.EventAuthorizationCreated, "60001")

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, "")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidSignature)
	})

	t.Run("override processes unverified notifications", func(t *testing.T) {
		f := newNotificationFixture(t, true)
		body := notificationBody("n-1", service.EventAuthorizationCreated, "60001")

		f.client.On("GetTransactionDetails", ctx, "60001").Return(details, nil)
		f.host.On("ReportTransactionEvent", ctx, mock.Anything).Return(nil)

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, "sha512=00")

		require.NoError(t, err)
		f.host.AssertNumberOfCalls(t, "ReportTransactionEvent", 1)
	})

	t.Run("void resolves the host id through the original transaction", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-2", service.EventVoidCreated, "60001")

		f.client.On("GetTransactionDetails", ctx, "60001").Return(&provider.TransactionDetails{
			TransID:           "60001",
			RefTransID:        "50001",
			TransactionStatus: "voided",
		}, nil)
		f.client.On("GetTransactionDetails", ctx, "50001").Return(&provider.TransactionDetails{
			TransID: "50001",
			Order:   provider.Order{Description: correlation.Encode(hostTransactionID)},
		}, nil)
		f.host.On("ReportTransactionEvent", ctx, mock.MatchedBy(func(report *entity.TransactionEventReport) bool {
			return report.TransactionID == hostTransactionID && report.Type == entity.ResultCancelSuccess
		})).Return(nil)

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body))

		require.NoError(t, err)
		f.host.AssertExpectations(t)
	})

	t.Run("foreign transaction is a correlation error", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-3", service.EventAuthCaptureCreated, "70001")

		f.client.On("GetTransactionDetails", ctx, "70001").Return(&provider.TransactionDetails{
			TransID: "70001",
			Order:   provider.Order{Description: "created in the merchant interface"},
		}, nil)

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body))

		assert.ErrorIs(t, err, domainErrors.ErrCorrelationDecode)
		f.host.AssertNotCalled(t, "ReportTransactionEvent", mock.Anything, mock.Anything)
	})

	t.Run("unknown provider account", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := notificationBody("n-1", service.EventAuthorizationCreated, "60001")

		err := f.synchronizer.HandleNotification(ctx, testTenant, "missing", body, f.sign(body))

		assert.ErrorIs(t, err, domainErrors.ErrNoProviderFound)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newNotificationFixture(t, false)
		body := []byte(`{"eventType":"net.authorize.payment.authorization.created"}`)

		err := f.synchronizer.HandleNotification(ctx, testTenant, f.account.ID, body, f.sign(body))

		assert.ErrorIs(t, err, domainErrors.ErrValidation)
	})
}
