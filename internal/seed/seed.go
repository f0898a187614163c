// Package seed imports tenant configuration from a YAML file into the metadata store.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
)

// File is the root of a seed document
type File struct {
	Tenants []Tenant `yaml:"tenants"`
}

// Tenant describes one host installation
type Tenant struct {
	SaleorAPIURL string     `yaml:"saleor_api_url"`
	AppToken     string     `yaml:"app_token"`
	Providers    []Provider `yaml:"providers"`
}

// Provider is a provider account plus the channels routed to it
type Provider struct {
	entity.ProviderAccountInput `yaml:",inline"`
	Channels                    []string `yaml:"channels"`
	RegisterWebhook             bool     `yaml:"register_webhook"`
}

// ProviderConfigs is the subset of AppConfigService the importer writes through
type ProviderConfigs interface {
	AddProvider(ctx context.Context, tenant string, input entity.ProviderAccountInput) (*entity.ProviderAccount, error)
	SetConnection(ctx context.Context, tenant, channelSlug, providerID string) (*entity.ChannelConnection, error)
}

// WebhookRegistrar registers the notification webhook of a stored account
type WebhookRegistrar interface {
	RegisterWebhook(ctx context.Context, tenant, providerID string) (*entity.WebhookRegistration, error)
}

// TokenStore persists the host app token of a tenant
type TokenStore func(ctx context.Context, tenant, token string) error

// Parse decodes and checks a seed document
func Parse(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	for i, tenant := range file.Tenants {
		if tenant.SaleorAPIURL == "" {
			return nil, fmt.Errorf("tenants[%d]: saleor_api_url is required", i)
		}
	}
	return &file, nil
}

// ParseFile reads the seed document at path
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Importer applies seed documents
type Importer struct {
	configs  ProviderConfigs
	webhooks WebhookRegistrar
	tokens   TokenStore
	logger   *zap.Logger
}

// NewImporter builds an importer. webhooks may be nil when no provider asks for registration.
func NewImporter(configs ProviderConfigs, webhooks WebhookRegistrar, tokens TokenStore, logger *zap.Logger) *Importer {
	return &Importer{
		configs:  configs,
		webhooks: webhooks,
		tokens:   tokens,
		logger:   logger,
	}
}

// Apply imports every tenant. A failing tenant does not stop the others;
// the combined error lists all failures.
func (i *Importer) Apply(ctx context.Context, file *File) error {
	var errs error
	for _, tenant := range file.Tenants {
		if err := i.applyTenant(ctx, tenant); err != nil {
			i.logger.Error("Failed to import tenant",
				zap.String("tenant", tenant.SaleorAPIURL),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", tenant.SaleorAPIURL, err))
		}
	}
	return errs
}

func (i *Importer) applyTenant(ctx context.Context, tenant Tenant) error {
	if tenant.AppToken != "" {
		if err := i.tokens(ctx, tenant.SaleorAPIURL, tenant.AppToken); err != nil {
			return fmt.Errorf("store app token: %w", err)
		}
	}

	for _, p := range tenant.Providers {
		account, err := i.configs.AddProvider(ctx, tenant.SaleorAPIURL, p.ProviderAccountInput)
		if err != nil {
			return fmt.Errorf("add provider %q: %w", p.Name, err)
		}

		for _, channel := range p.Channels {
			if _, err := i.configs.SetConnection(ctx, tenant.SaleorAPIURL, channel, account.ID); err != nil {
				return fmt.Errorf("connect channel %q: %w", channel, err)
			}
		}

		if p.RegisterWebhook {
			if i.webhooks == nil {
				return fmt.Errorf("provider %q: webhook registration is not configured", p.Name)
			}
			if _, err := i.webhooks.RegisterWebhook(ctx, tenant.SaleorAPIURL, account.ID); err != nil {
				return fmt.Errorf("register webhook for %q: %w", p.Name, err)
			}
		}

		i.logger.Info("Imported provider account",
			zap.String("tenant", tenant.SaleorAPIURL),
			zap.String("provider_id", account.ID),
			zap.Strings("channels", p.Channels))
	}
	return nil
}
