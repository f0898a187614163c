package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/middleware/auth"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
	pkgErrors "github.com/wekeepgrowing/authorize-net-app/pkg/errors"
)

// AdminHandler manages provider accounts and channel connections of the authenticated tenant
type AdminHandler struct {
	configs  *usecase.AppConfigService
	webhooks *usecase.WebhookRegistrationService
	logger   *zap.Logger
}

func NewAdminHandler(configs *usecase.AppConfigService, webhooks *usecase.WebhookRegistrationService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		configs:  configs,
		webhooks: webhooks,
		logger:   logger,
	}
}

// SetConnectionRequest binds a channel to a provider account
type SetConnectionRequest struct {
	ChannelSlug string `json:"channelSlug"`
	ProviderID  string `json:"providerId"`
}

// adminError turns lookups of unknown IDs into 404s
func (h *AdminHandler) adminError(c echo.Context, err error, msg string) error {
	if errors.Is(err, domainErrors.ErrNoProviderFound) || errors.Is(err, domainErrors.ErrNoConnectionFound) {
		err = pkgErrors.NewAppError(pkgErrors.ErrNotFound, err.Error(), err)
	}
	return respondError(c, h.logger, err, msg)
}

func redact(accounts []entity.ProviderAccount) []entity.ProviderAccount {
	out := make([]entity.ProviderAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Redacted())
	}
	return out
}

func (h *AdminHandler) ListProviders(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	providers, err := h.configs.ListProviders(c.Request().Context(), user.Tenant)
	if err != nil {
		return h.adminError(c, err, "Failed to list providers")
	}
	return c.JSON(http.StatusOK, redact(providers))
}

func (h *AdminHandler) CreateProvider(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var input entity.ProviderAccountInput
	if err := c.Bind(&input); err != nil {
		return h.adminError(c, domainErrors.NewValidationError("malformed provider", err), "Failed to bind provider")
	}

	account, err := h.configs.AddProvider(c.Request().Context(), user.Tenant, input)
	if err != nil {
		return h.adminError(c, err, "Failed to add provider")
	}

	h.logger.Info("Provider account added",
		zap.String("tenant", user.Tenant),
		zap.String("provider_id", account.ID),
		zap.String("admin", user.Subject))

	return c.JSON(http.StatusCreated, account.Redacted())
}

func (h *AdminHandler) GetProvider(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	account, err := h.configs.GetProvider(c.Request().Context(), user.Tenant, c.Param("id"))
	if err != nil {
		return h.adminError(c, err, "Failed to get provider")
	}
	return c.JSON(http.StatusOK, account.Redacted())
}

func (h *AdminHandler) UpdateProvider(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var input entity.ProviderAccountInput
	if err := c.Bind(&input); err != nil {
		return h.adminError(c, domainErrors.NewValidationError("malformed provider", err), "Failed to bind provider")
	}

	account, err := h.configs.UpdateProvider(c.Request().Context(), user.Tenant, c.Param("id"), input)
	if err != nil {
		return h.adminError(c, err, "Failed to update provider")
	}

	h.logger.Info("Provider account updated",
		zap.String("tenant", user.Tenant),
		zap.String("provider_id", account.ID),
		zap.String("admin", user.Subject))

	return c.JSON(http.StatusOK, account.Redacted())
}

func (h *AdminHandler) DeleteProvider(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	if err := h.configs.DeleteProvider(c.Request().Context(), user.Tenant, c.Param("id")); err != nil {
		return h.adminError(c, err, "Failed to delete provider")
	}

	h.logger.Info("Provider account deleted",
		zap.String("tenant", user.Tenant),
		zap.String("provider_id", c.Param("id")),
		zap.String("admin", user.Subject))

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) RegisterWebhook(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	registration, err := h.webhooks.RegisterWebhook(c.Request().Context(), user.Tenant, c.Param("id"))
	if err != nil {
		return h.adminError(c, err, "Failed to register webhook")
	}
	return c.JSON(http.StatusOK, registration)
}

func (h *AdminHandler) ListConnections(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	connections, err := h.configs.ListConnections(c.Request().Context(), user.Tenant)
	if err != nil {
		return h.adminError(c, err, "Failed to list connections")
	}
	return c.JSON(http.StatusOK, connections)
}

func (h *AdminHandler) SetConnection(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req SetConnectionRequest
	if err := c.Bind(&req); err != nil {
		return h.adminError(c, domainErrors.NewValidationError("malformed connection", err), "Failed to bind connection")
	}

	connection, err := h.configs.SetConnection(c.Request().Context(), user.Tenant, req.ChannelSlug, req.ProviderID)
	if err != nil {
		return h.adminError(c, err, "Failed to set connection")
	}

	h.logger.Info("Channel connection set",
		zap.String("tenant", user.Tenant),
		zap.String("channel_slug", connection.ChannelSlug),
		zap.String("provider_id", connection.ProviderID))

	return c.JSON(http.StatusOK, connection)
}

func (h *AdminHandler) DeleteConnection(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	if err := h.configs.DeleteConnection(c.Request().Context(), user.Tenant, c.Param("id")); err != nil {
		return h.adminError(c, err, "Failed to delete connection")
	}
	return c.NoContent(http.StatusNoContent)
}
