package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/wekeepgrowing/authorize-net-app/pkg/config"
)

const serviceName = "authorize-net"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Provider ProviderConfig `mapstructure:"provider"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// defaults are applied before the config file and env overrides
var defaults = map[string]interface{}{
	"service.name":                           serviceName,
	"service.environment":                    "development",
	"service.version":                        "dev",
	"service.app_url":                        "http://localhost:8080",
	"service.encryption_key":                 "",
	"service.admin_jwt_secret":               "",
	"service.host_webhook_secret":            "",
	"service.sync_webhook_timeout":           20 * time.Second,
	"service.allow_unverified_notifications": false,
	"provider.timeout":                       20 * time.Second,
	"provider.api_url":                       "",
	"provider.rest_url":                      "",
	"metadata.driver":                        MetadataDriverPostgres,
	"database.host":                          "localhost",
	"database.port":                          5432,
	"database.name":                          "authorize_net",
	"database.user":                          "postgres",
	"database.password":                      "",
	"database.ssl_mode":                      "disable",
	"database.max_open_conns":                25,
	"database.max_idle_conns":                5,
	"database.conn_max_lifetime":             5 * time.Minute,
	"database.conn_max_idle_time":            time.Minute,
	"database.slow_query_threshold":          200 * time.Millisecond,
	"redis.host":                             "localhost",
	"redis.port":                             6379,
	"redis.password":                         "",
	"redis.db":                               0,
	"server.http.host":                       "0.0.0.0",
	"server.http.port":                       8080,
	"server.grpc.host":                       "0.0.0.0",
	"server.grpc.port":                       9090,
	"log.level":                              "info",
	"log.format":                             "json",
	"log.output":                             "stdout",
}

// LoadConfig reads configs/{APP_ENV}/authorize-net.yaml or CONFIG_PATH,
// with AUTHORIZE_NET_* environment overrides
func LoadConfig() (*Config, error) {
	loaded, err := pkgconfig.Load(serviceName, defaults)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := loaded.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings the service cannot start without
func (c *Config) Validate() error {
	if len(c.Service.EncryptionKey) != 64 {
		return fmt.Errorf("service.encryption_key must be 64 hex chars")
	}
	switch c.Metadata.Driver {
	case MetadataDriverPostgres, MetadataDriverRedis, MetadataDriverMemory:
	default:
		return fmt.Errorf("unsupported metadata driver: %q", c.Metadata.Driver)
	}
	return nil
}
