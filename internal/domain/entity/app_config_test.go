package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput(name string) ProviderAccountInput {
	return ProviderAccountInput{
		Name:           name,
		APILoginID:     "login",
		TransactionKey: "txkey-" + name,
		SignatureKey:   "SIGNATURE" + name,
		Environment:    EnvironmentSandbox,
	}
}

func TestAppConfig_Connections(t *testing.T) {
	cfg := NewAppConfig()
	a := cfg.AddProvider(testInput("a"))
	b := cfg.AddProvider(testInput("b"))

	first := cfg.SetConnection("ch1", a.ID)
	second := cfg.SetConnection("ch1", b.ID)
	cfg.SetConnection("ch2", a.ID)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, cfg.Connections, 2)
	conn, ok := cfg.FindConnectionByChannel("ch1")
	require.True(t, ok)
	assert.Equal(t, b.ID, conn.ProviderID)

	// removing a provider leaves dangling connections
	assert.True(t, cfg.RemoveProvider(a.ID))
	assert.False(t, cfg.RemoveProvider(a.ID))
	conn, ok = cfg.FindConnectionByChannel("ch2")
	require.True(t, ok)
	_, found := cfg.FindProvider(conn.ProviderID)
	assert.False(t, found)

	assert.True(t, cfg.RemoveConnection(first.ID))
	_, ok = cfg.FindConnectionByChannel("ch1")
	assert.False(t, ok)
}

func TestAppConfig_UpdateProviderKeepsRegistration(t *testing.T) {
	cfg := NewAppConfig()
	account := cfg.AddProvider(testInput("a"))
	require.True(t, cfg.SetWebhookRegistration(account.ID, WebhookRegistration{WebhookID: "wh-1"}))

	updated, ok := cfg.UpdateProvider(account.ID, testInput("renamed"))

	require.True(t, ok)
	assert.Equal(t, "renamed", updated.Name)
	require.NotNil(t, updated.WebhookRegistration)
	assert.Equal(t, "wh-1", updated.WebhookRegistration.WebhookID)

	_, ok = cfg.UpdateProvider("missing", testInput("x"))
	assert.False(t, ok)
	assert.False(t, cfg.SetWebhookRegistration("missing", WebhookRegistration{}))
}

func TestAppConfig_CustomerProfiles(t *testing.T) {
	cfg := NewAppConfig()

	cfg.UpsertCustomerProfile(" Ada@Example.com ", "100")
	cfg.UpsertCustomerProfile("ada@example.com", "200")

	id, ok := cfg.FindCustomerProfile("ADA@EXAMPLE.COM")
	require.True(t, ok)
	assert.Equal(t, "200", id)
	assert.Len(t, cfg.CustomerProfiles, 1)

	assert.True(t, cfg.RemoveCustomerProfile("ada@example.com"))
	_, ok = cfg.FindCustomerProfile("ada@example.com")
	assert.False(t, ok)
}

func TestProviderAccount_Redacted(t *testing.T) {
	account := ProviderAccount{
		ID:             "p1",
		APILoginID:     "login",
		TransactionKey: "abcdef123456",
		SignatureKey:   "xyz",
	}

	redacted := account.Redacted()

	assert.Equal(t, "********3456", redacted.TransactionKey)
	assert.Equal(t, "********", redacted.SignatureKey)
	assert.Equal(t, "login", redacted.APILoginID)
	assert.Equal(t, "abcdef123456", account.TransactionKey)
	assert.Empty(t, ProviderAccount{}.Redacted().SignatureKey)
}
