package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/middleware/auth"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
)

// SyncWebhookHandler serves the synchronous payment webhooks of the host
type SyncWebhookHandler struct {
	transactions *usecase.TransactionUsecase
	timeout      time.Duration
	logger       *zap.Logger
}

func NewSyncWebhookHandler(transactions *usecase.TransactionUsecase, timeout time.Duration, logger *zap.Logger) *SyncWebhookHandler {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &SyncWebhookHandler{
		transactions: transactions,
		timeout:      timeout,
		logger:       logger,
	}
}

// handleSync binds the event, runs fn under the sync deadline and writes its response
func handleSync[E any, R any](h *SyncWebhookHandler, c echo.Context, name string, fn func(ctx context.Context, tenant string, event *E) (*R, error)) error {
	tenant, err := auth.GetTenant(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Tenant is not set",
			"code":  "MISSING_TENANT",
		})
	}

	var event E
	if err := c.Bind(&event); err != nil {
		return respondError(c, h.logger, domainErrors.NewValidationError("malformed event payload", err), "Failed to bind webhook payload",
			zap.String("webhook", name),
			zap.String("tenant", tenant))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	resp, err := fn(ctx, tenant, &event)
	if err != nil {
		return respondError(c, h.logger, err, "Sync webhook failed",
			zap.String("webhook", name),
			zap.String("tenant", tenant),
			zap.Duration("elapsed", time.Since(start)))
	}

	h.logger.Debug("Sync webhook handled",
		zap.String("webhook", name),
		zap.String("tenant", tenant),
		zap.Duration("elapsed", time.Since(start)))

	return c.JSON(http.StatusOK, resp)
}

func (h *SyncWebhookHandler) PaymentGatewayInitializeSession(c echo.Context) error {
	return handleSync(h, c, "payment-gateway-initialize-session", h.transactions.PaymentGatewayInitializeSession)
}

func (h *SyncWebhookHandler) TransactionInitializeSession(c echo.Context) error {
	return handleSync(h, c, "transaction-initialize-session", h.transactions.TransactionInitializeSession)
}

func (h *SyncWebhookHandler) TransactionProcessSession(c echo.Context) error {
	return handleSync(h, c, "transaction-process-session", h.transactions.TransactionProcessSession)
}

func (h *SyncWebhookHandler) TransactionCancelationRequested(c echo.Context) error {
	return handleSync(h, c, "transaction-cancelation-requested", h.transactions.TransactionCancelationRequested)
}

func (h *SyncWebhookHandler) TransactionRefundRequested(c echo.Context) error {
	return handleSync(h, c, "transaction-refund-requested", h.transactions.TransactionRefundRequested)
}

func (h *SyncWebhookHandler) ListStoredPaymentMethods(c echo.Context) error {
	return handleSync(h, c, "list-stored-payment-methods", h.transactions.ListStoredPaymentMethods)
}
