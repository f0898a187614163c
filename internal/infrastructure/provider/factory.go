package provider

import (
	"net/http"
	"time"

	"github.com/wekeepgrowing/authorize-net-app/internal/config"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/provider/authorizenet"
	"go.uber.org/zap"
)

// Factory creates Authorize.net clients for provider accounts
type Factory struct {
	httpClient *http.Client
	options    []authorizenet.Option
	logger     *zap.Logger
}

var _ provider.ClientFactory = (*Factory)(nil)

// NewFactory creates a new provider factory
func NewFactory(cfg *config.ProviderConfig, logger *zap.Logger) *Factory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	f := &Factory{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	if cfg.APIURL != "" || cfg.RESTURL != "" {
		logger.Warn("Authorize.net endpoints overridden",
			zap.String("api_url", cfg.APIURL),
			zap.String("rest_url", cfg.RESTURL))
		f.options = append(f.options, authorizenet.WithEndpoints(cfg.APIURL, cfg.RESTURL))
	}
	return f
}

// NewClient returns a client bound to the account's credentials and environment
func (f *Factory) NewClient(account *entity.ProviderAccount) provider.Client {
	return authorizenet.NewClient(account, f.httpClient, f.logger, f.options...)
}
