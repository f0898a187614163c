package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/wekeepgrowing/authorize-net-app/internal/adapter/handler/http"
	"github.com/wekeepgrowing/authorize-net-app/internal/config"
	"github.com/wekeepgrowing/authorize-net-app/internal/middleware/auth"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
	"github.com/wekeepgrowing/authorize-net-app/pkg/logger"
)

// maxBodySize bounds webhook and admin payloads
const maxBodySize = "1M"

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// Services are the usecases the HTTP routes dispatch to
type Services struct {
	Transactions  *usecase.TransactionUsecase
	Notifications *usecase.NotificationSynchronizer
	Configs       *usecase.AppConfigService
	Webhooks      *usecase.WebhookRegistrationService
	Health        HealthCheck
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services Services
}

func NewServer(cfg *config.Config, log *zap.Logger, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger.WithEchoLogger(e, log)
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		services: services,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Addr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	status := http.StatusOK
	body := map[string]string{
		"status":  "healthy",
		"service": s.config.Service.Name,
		"version": s.config.Service.Version,
	}

	if s.services.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.services.Health(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
		}
	}

	return c.JSON(status, body)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.health)

	syncHandler := handlers.NewSyncWebhookHandler(s.services.Transactions, s.config.Service.SyncWebhookTimeout, s.logger)
	notificationHandler := handlers.NewNotificationHandler(s.services.Notifications, s.logger)
	adminHandler := handlers.NewAdminHandler(s.services.Configs, s.services.Webhooks, s.logger)

	webhooks := s.echo.Group("/api/webhooks")

	// Provider notifications authenticate with their own HMAC signature
	webhooks.POST("/authorize-net", notificationHandler.HandleNotification)

	host := webhooks.Group("", auth.HostSignatureMiddleware(auth.HostSignatureConfig{
		Secret: s.config.Service.HostWebhookSecret,
		Logger: s.logger,
	}))
	host.POST("/payment-gateway-initialize-session", syncHandler.PaymentGatewayInitializeSession)
	host.POST("/transaction-initialize-session", syncHandler.TransactionInitializeSession)
	host.POST("/transaction-process-session", syncHandler.TransactionProcessSession)
	host.POST("/transaction-cancelation-requested", syncHandler.TransactionCancelationRequested)
	host.POST("/transaction-refund-requested", syncHandler.TransactionRefundRequested)
	host.POST("/list-stored-payment-methods", syncHandler.ListStoredPaymentMethods)

	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.Service.AdminJWTSecret,
		Logger: s.logger,
	}))

	providers := v1.Group("/providers")
	providers.GET("", adminHandler.ListProviders)
	providers.POST("", adminHandler.CreateProvider)
	providers.GET("/:id", adminHandler.GetProvider)
	providers.PUT("/:id", adminHandler.UpdateProvider)
	providers.DELETE("/:id", adminHandler.DeleteProvider)
	providers.POST("/:id/webhook", adminHandler.RegisterWebhook)

	connections := v1.Group("/connections")
	connections.GET("", adminHandler.ListConnections)
	connections.PUT("", adminHandler.SetConnection)
	connections.DELETE("/:id", adminHandler.DeleteConnection)
}
