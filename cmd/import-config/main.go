package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/config"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/crypto"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/host"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/store"
	"github.com/wekeepgrowing/authorize-net-app/internal/seed"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
	appLogger "github.com/wekeepgrowing/authorize-net-app/pkg/logger"
)

func main() {
	path := flag.String("file", "configs/seed.yaml", "seed file to import")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := appLogger.DefaultZapLogger()
	defer logger.Sync()

	file, err := seed.ParseFile(*path)
	if err != nil {
		logger.Fatal("Failed to read seed file", zap.String("path", *path), zap.Error(err))
	}

	ctx := context.Background()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open metadata store", zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close metadata store", zap.Error(err))
		}
	}()

	encryption, err := crypto.NewAESEncryptionService(cfg.Service.EncryptionKey)
	if err != nil {
		logger.Fatal("Failed to initialize encryption", zap.Error(err))
	}

	configs := usecase.NewAppConfigService(st.Metadata, encryption, validator.New(validator.WithRequiredStructEnabled()), logger)
	webhooks := usecase.NewWebhookRegistrationService(configs, provider.NewFactory(&cfg.Provider, logger), cfg.Service.AppURL, logger)

	importer := seed.NewImporter(configs, webhooks, func(ctx context.Context, tenant, token string) error {
		return host.StoreToken(ctx, st.Metadata, encryption, tenant, token)
	}, logger)

	if err := importer.Apply(ctx, file); err != nil {
		// deferred cleanup is skipped by Fatal
		_ = st.Close()
		logger.Fatal("Seed import finished with errors", zap.Error(err))
	}

	logger.Info("Seed import completed", zap.Int("tenants", len(file.Tenants)))
}
