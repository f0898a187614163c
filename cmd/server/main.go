package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/config"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/crypto"
	grpcServer "github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/grpc"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/host"
	httpServer "github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/http"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/store"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase/gateway"
	"github.com/wekeepgrowing/authorize-net-app/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Service.Environment == "development",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger = zapLogger.With(
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version))

	// The host expects amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	st, err := store.Open(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open metadata store", zap.Error(err))
	}

	encryption, err := crypto.NewAESEncryptionService(cfg.Service.EncryptionKey)
	if err != nil {
		zapLogger.Fatal("Failed to initialize encryption", zap.Error(err))
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	providers := provider.NewFactory(&cfg.Provider, zapLogger)
	hosts := host.NewFactory(st.Metadata, encryption, cfg.Provider.Timeout, zapLogger)

	configs := usecase.NewAppConfigService(st.Metadata, encryption, validate, zapLogger)
	resolver := usecase.NewActiveProviderResolver(configs)
	profiles := usecase.NewCustomerProfileService(configs, zapLogger)
	bridge := usecase.NewCorrelationBridge(zapLogger)

	builder := gateway.NewRequestBuilder(profiles, zapLogger)
	registry := gateway.NewRegistry(
		gateway.NewAcceptHostedGateway(builder, zapLogger),
		gateway.NewAcceptJsGateway(builder, zapLogger),
		gateway.NewApplePayGateway(builder, zapLogger),
		gateway.NewPayPalGateway(builder, zapLogger),
	)

	if cfg.Service.AllowUnverifiedNotifications {
		zapLogger.Warn("Unverified provider notifications will be processed",
			zap.Bool("audit", true))
	}

	transactions := usecase.NewTransactionUsecase(resolver, registry, providers, hosts, bridge, validate, zapLogger)
	synchronizer := usecase.NewNotificationSynchronizer(
		configs, providers, hosts, st.Notifications, bridge, validate,
		usecase.NotificationSynchronizerOptions{AllowUnverified: cfg.Service.AllowUnverifiedNotifications},
		zapLogger,
	)
	webhooks := usecase.NewWebhookRegistrationService(configs, providers, cfg.Service.AppURL, zapLogger)

	services := httpServer.Services{
		Transactions:  transactions,
		Notifications: synchronizer,
		Configs:       configs,
		Webhooks:      webhooks,
		Health:        st.Ping,
	}

	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, services)

	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcSrv.SetServing(false)
	err = multierr.Combine(
		httpSrv.Shutdown(shutdownCtx),
		grpcSrv.Shutdown(shutdownCtx),
		st.Close(),
	)
	if err != nil {
		zapLogger.Error("Shutdown completed with errors", zap.Error(err))
		return
	}

	zapLogger.Info("Servers shut down successfully")
}
