package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
)

// HeaderProviderSignature carries the HMAC-SHA512 of a provider notification body
const HeaderProviderSignature = "X-ANET-Signature"

// NotificationHandler receives Authorize.net webhook notifications
type NotificationHandler struct {
	synchronizer *usecase.NotificationSynchronizer
	logger       *zap.Logger
}

func NewNotificationHandler(synchronizer *usecase.NotificationSynchronizer, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		synchronizer: synchronizer,
		logger:       logger,
	}
}

// HandleNotification verifies and applies one notification.
// A non-2xx answer makes the provider redeliver it.
func (h *NotificationHandler) HandleNotification(c echo.Context) error {
	tenant := c.QueryParam("tenant")
	providerID := c.QueryParam("provider")
	if tenant == "" || providerID == "" {
		h.logger.Warn("Notification without tenant or provider",
			zap.String("tenant", tenant),
			zap.String("provider_id", providerID))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "tenant and provider query parameters are required",
		})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return respondError(c, h.logger, domainErrors.NewValidationError("failed to read notification body", err), "Failed to read notification")
	}

	if err := h.synchronizer.HandleNotification(c.Request().Context(), tenant, providerID, body, c.Request().Header.Get(HeaderProviderSignature)); err != nil {
		return respondError(c, h.logger, err, "Failed to handle notification",
			zap.String("tenant", tenant),
			zap.String("provider_id", providerID))
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
