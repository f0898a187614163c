package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`

	// AppURL is the public base URL provider notifications are sent to
	AppURL string `mapstructure:"app_url"`

	// EncryptionKey is the 32-byte hex master key for tenant config blobs
	EncryptionKey string `mapstructure:"encryption_key"`

	AdminJWTSecret    string `mapstructure:"admin_jwt_secret"`
	HostWebhookSecret string `mapstructure:"host_webhook_secret"`

	SyncWebhookTimeout time.Duration `mapstructure:"sync_webhook_timeout"`

	// AllowUnverifiedNotifications processes notifications whose signature does not match.
	// Every such notification is logged with audit=true.
	AllowUnverifiedNotifications bool `mapstructure:"allow_unverified_notifications"`
}

// ProviderConfig tunes the Authorize.net client
type ProviderConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`

	// Endpoint overrides for local mocks; empty uses the account's environment
	APIURL  string `mapstructure:"api_url"`
	RESTURL string `mapstructure:"rest_url"`
}
