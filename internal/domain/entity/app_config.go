package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Environment selects the provider API host
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// IsValid reports whether the environment is one of the supported values
func (e Environment) IsValid() bool {
	return e == EnvironmentSandbox || e == EnvironmentProduction
}

// ProviderAccount holds the credentials of one Authorize.net merchant account
type ProviderAccount struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name,omitempty"`
	APILoginID          string               `json:"apiLoginId"`
	TransactionKey      string               `json:"transactionKey"`
	PublicClientKey     string               `json:"publicClientKey"`
	SignatureKey        string               `json:"signatureKey,omitempty"`
	Environment         Environment          `json:"environment"`
	WebhookRegistration *WebhookRegistration `json:"webhookRegistration,omitempty"`
}

// ProviderAccountInput is the admin-supplied shape of a provider account
type ProviderAccountInput struct {
	Name            string      `json:"name" yaml:"name"`
	APILoginID      string      `json:"apiLoginId" yaml:"api_login_id" validate:"required"`
	TransactionKey  string      `json:"transactionKey" yaml:"transaction_key" validate:"required"`
	PublicClientKey string      `json:"publicClientKey" yaml:"public_client_key"`
	SignatureKey    string      `json:"signatureKey" yaml:"signature_key"`
	Environment     Environment `json:"environment" yaml:"environment" validate:"required,oneof=sandbox production"`
}

// ChannelConnection binds a host sales channel to a provider account
type ChannelConnection struct {
	ID          string `json:"id"`
	ChannelSlug string `json:"channelSlug"`
	ProviderID  string `json:"providerId"`
}

// CustomerProfileMapping caches the provider-side customer profile of a host user
type CustomerProfileMapping struct {
	SaleorUserEmail            string `json:"saleorUserEmail"`
	AuthorizeCustomerProfileID string `json:"authorizeCustomerProfileId"`
}

// WebhookRegistration records the notification webhook registered for a provider account
type WebhookRegistration struct {
	WebhookID  string    `json:"webhookId"`
	URL        string    `json:"url"`
	EventTypes []string  `json:"eventTypes"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AppConfig is the whole persisted configuration of one tenant.
// It is read fresh and written wholesale on every mutation.
type AppConfig struct {
	Providers        []ProviderAccount        `json:"providers"`
	Connections      []ChannelConnection      `json:"connections"`
	CustomerProfiles []CustomerProfileMapping `json:"customerProfiles"`
}

// NewAppConfig returns an empty configuration
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Providers:        []ProviderAccount{},
		Connections:      []ChannelConnection{},
		CustomerProfiles: []CustomerProfileMapping{},
	}
}

// AddProvider appends a provider account under a freshly generated ID
func (c *AppConfig) AddProvider(input ProviderAccountInput) ProviderAccount {
	account := ProviderAccount{
		ID:              uuid.NewString(),
		Name:            input.Name,
		APILoginID:      input.APILoginID,
		TransactionKey:  input.TransactionKey,
		PublicClientKey: input.PublicClientKey,
		SignatureKey:    input.SignatureKey,
		Environment:     input.Environment,
	}
	c.Providers = append(c.Providers, account)
	return account
}

// FindProvider returns the provider account with the given ID
func (c *AppConfig) FindProvider(id string) (*ProviderAccount, bool) {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i], true
		}
	}
	return nil, false
}

// UpdateProvider replaces the credentials of an existing provider account, keeping its webhook registration
func (c *AppConfig) UpdateProvider(id string, input ProviderAccountInput) (*ProviderAccount, bool) {
	account, ok := c.FindProvider(id)
	if !ok {
		return nil, false
	}
	account.Name = input.Name
	account.APILoginID = input.APILoginID
	account.TransactionKey = input.TransactionKey
	account.PublicClientKey = input.PublicClientKey
	account.SignatureKey = input.SignatureKey
	account.Environment = input.Environment
	return account, true
}

// RemoveProvider deletes a provider account. Connections referencing it are left in place.
func (c *AppConfig) RemoveProvider(id string) bool {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			c.Providers = append(c.Providers[:i], c.Providers[i+1:]...)
			return true
		}
	}
	return false
}

// SetConnection binds channelSlug to providerID, replacing any existing binding for that channel.
// The provider reference is not checked here.
func (c *AppConfig) SetConnection(channelSlug, providerID string) ChannelConnection {
	for i := range c.Connections {
		if c.Connections[i].ChannelSlug == channelSlug {
			c.Connections[i].ProviderID = providerID
			return c.Connections[i]
		}
	}
	conn := ChannelConnection{
		ID:          uuid.NewString(),
		ChannelSlug: channelSlug,
		ProviderID:  providerID,
	}
	c.Connections = append(c.Connections, conn)
	return conn
}

// FindConnectionByChannel returns the connection bound to channelSlug
func (c *AppConfig) FindConnectionByChannel(channelSlug string) (*ChannelConnection, bool) {
	for i := range c.Connections {
		if c.Connections[i].ChannelSlug == channelSlug {
			return &c.Connections[i], true
		}
	}
	return nil, false
}

// RemoveConnection deletes a connection by ID
func (c *AppConfig) RemoveConnection(id string) bool {
	for i := range c.Connections {
		if c.Connections[i].ID == id {
			c.Connections = append(c.Connections[:i], c.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// normalizeEmail makes profile lookups case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindCustomerProfile returns the cached provider profile ID for email
func (c *AppConfig) FindCustomerProfile(email string) (string, bool) {
	key := normalizeEmail(email)
	for _, m := range c.CustomerProfiles {
		if normalizeEmail(m.SaleorUserEmail) == key {
			return m.AuthorizeCustomerProfileID, true
		}
	}
	return "", false
}

// UpsertCustomerProfile stores at most one mapping per email
func (c *AppConfig) UpsertCustomerProfile(email, profileID string) {
	key := normalizeEmail(email)
	for i := range c.CustomerProfiles {
		if normalizeEmail(c.CustomerProfiles[i].SaleorUserEmail) == key {
			c.CustomerProfiles[i].AuthorizeCustomerProfileID = profileID
			return
		}
	}
	c.CustomerProfiles = append(c.CustomerProfiles, CustomerProfileMapping{
		SaleorUserEmail:            key,
		AuthorizeCustomerProfileID: profileID,
	})
}

// RemoveCustomerProfile deletes the mapping for email
func (c *AppConfig) RemoveCustomerProfile(email string) bool {
	key := normalizeEmail(email)
	for i := range c.CustomerProfiles {
		if normalizeEmail(c.CustomerProfiles[i].SaleorUserEmail) == key {
			c.CustomerProfiles = append(c.CustomerProfiles[:i], c.CustomerProfiles[i+1:]...)
			return true
		}
	}
	return false
}

// SetWebhookRegistration caches the webhook registered for a provider account
func (c *AppConfig) SetWebhookRegistration(providerID string, registration WebhookRegistration) bool {
	account, ok := c.FindProvider(providerID)
	if !ok {
		return false
	}
	account.WebhookRegistration = &registration
	return true
}

const redactedSecret = "********"

// Redacted returns a copy safe to send to admin clients
func (p ProviderAccount) Redacted() ProviderAccount {
	p.TransactionKey = redact(p.TransactionKey)
	p.SignatureKey = redact(p.SignatureKey)
	return p
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return redactedSecret
	}
	return redactedSecret + secret[len(secret)-4:]
}
