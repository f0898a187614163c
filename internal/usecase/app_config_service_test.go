package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
)

func TestAppConfigService_Providers(t *testing.T) {
	ctx := context.Background()

	t.Run("empty tenant loads an empty configuration", func(t *testing.T) {
		store := newTestStore(t)

		cfg, err := store.configs.Load(ctx, testTenant)

		require.NoError(t, err)
		assert.Empty(t, cfg.Providers)
		assert.Empty(t, cfg.Connections)
		assert.Empty(t, cfg.CustomerProfiles)
	})

	t.Run("adding the same input twice creates two accounts", func(t *testing.T) {
		store := newTestStore(t)

		first, err := store.configs.AddProvider(ctx, testTenant, providerInput("main"))
		require.NoError(t, err)
		second, err := store.configs.AddProvider(ctx, testTenant, providerInput("main"))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		providers, err := store.configs.ListProviders(ctx, testTenant)
		require.NoError(t, err)
		assert.Len(t, providers, 2)
	})

	t.Run("invalid input is rejected", func(t *testing.T) {
		store := newTestStore(t)
		input := providerInput("main")
		input.Environment = "staging"

		_, err := store.configs.AddProvider(ctx, testTenant, input)

		assert.ErrorIs(t, err, domainErrors.ErrValidation)
	})

	t.Run("update keeps id and webhook registration", func(t *testing.T) {
		store := newTestStore(t)
		account, err := store.configs.AddProvider(ctx, testTenant, providerInput("main"))
		require.NoError(t, err)
		require.NoError(t, store.configs.SetWebhookRegistration(ctx, testTenant, account.ID, entity.WebhookRegistration{WebhookID: "wh-1"}))

		input := providerInput("main")
		input.TransactionKey = "rotated"
		updated, err := store.configs.UpdateProvider(ctx, testTenant, account.ID, input)

		require.NoError(t, err)
		assert.Equal(t, account.ID, updated.ID)
		assert.Equal(t, "rotated", updated.TransactionKey)
		require.NotNil(t, updated.WebhookRegistration)
		assert.Equal(t, "wh-1", updated.WebhookRegistration.WebhookID)
	})

	t.Run("unknown ids", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.configs.GetProvider(ctx, testTenant, "missing")
		assert.ErrorIs(t, err, domainErrors.ErrNoProviderFound)

		_, err = store.configs.UpdateProvider(ctx, testTenant, "missing", providerInput("main"))
		assert.ErrorIs(t, err, domainErrors.ErrNoProviderFound)

		err = store.configs.DeleteProvider(ctx, testTenant, "missing")
		assert.ErrorIs(t, err, domainErrors.ErrNoProviderFound)
	})

	t.Run("configuration is stored encrypted", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.configs.AddProvider(ctx, testTenant, providerInput("main"))
		require.NoError(t, err)

		sealed, err := store.repo.Get(ctx, testTenant, repository.MetadataKeyAppConfig)

		require.NoError(t, err)
		assert.NotEmpty(t, sealed)
		assert.NotContains(t, sealed, "txkey-main")
		assert.NotContains(t, sealed, "login-main")
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.configs.AddProvider(ctx, testTenant, providerInput("main"))
		require.NoError(t, err)

		providers, err := store.configs.ListProviders(ctx, "https://other.example.com/graphql/")

		require.NoError(t, err)
		assert.Empty(t, providers)
	})
}

func TestAppConfigService_Connections(t *testing.T) {
	ctx := context.Background()

	t.Run("one connection per channel", func(t *testing.T) {
		store := newTestStore(t)
		a, err := store.configs.AddProvider(ctx, testTenant, providerInput("a"))
		require.NoError(t, err)
		b, err := store.configs.AddProvider(ctx, testTenant, providerInput("b"))
		require.NoError(t, err)

		first, err := store.configs.SetConnection(ctx, testTenant, "ch1", a.ID)
		require.NoError(t, err)
		second, err := store.configs.SetConnection(ctx, testTenant, "ch1", b.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		connections, err := store.configs.ListConnections(ctx, testTenant)
		require.NoError(t, err)
		require.Len(t, connections, 1)
		assert.Equal(t, b.ID, connections[0].ProviderID)
	})

	t.Run("missing arguments", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.configs.SetConnection(ctx, testTenant, "", "provider")
		assert.ErrorIs(t, err, domainErrors.ErrNoChannelSlugFound)

		_, err = store.configs.SetConnection(ctx, testTenant, "ch1", "")
		assert.ErrorIs(t, err, domainErrors.ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		store := newTestStore(t)
		account := store.seedProvider(t, "ch1")
		connections, err := store.configs.ListConnections(ctx, testTenant)
		require.NoError(t, err)
		require.Len(t, connections, 1)

		require.NoError(t, store.configs.DeleteConnection(ctx, testTenant, connections[0].ID))

		err = store.configs.DeleteConnection(ctx, testTenant, connections[0].ID)
		assert.ErrorIs(t, err, domainErrors.ErrNoConnectionFound)
		_, err = store.configs.GetProvider(ctx, testTenant, account.ID)
		assert.NoError(t, err)
	})
}

func TestAppConfigService_CustomerProfiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.configs.UpsertCustomerProfile(ctx, testTenant, "Ada@Example.com", "100"))
	require.NoError(t, store.configs.UpsertCustomerProfile(ctx, testTenant, "ada@example.com", "200"))

	id, found, err := store.configs.GetCustomerProfile(ctx, testTenant, "ADA@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "200", id)

	cfg, err := store.configs.Load(ctx, testTenant)
	require.NoError(t, err)
	assert.Len(t, cfg.CustomerProfiles, 1)

	require.NoError(t, store.configs.DeleteCustomerProfile(ctx, testTenant, "ada@example.com"))
	_, found, err = store.configs.GetCustomerProfile(ctx, testTenant, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

// Mutations read and write the whole blob without locking, so interleaved
// read-modify-write cycles keep only the last write.
func TestAppConfigService_InterleavedWritesKeepLastWrite(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	staleA, err := store.configs.Load(ctx, testTenant)
	require.NoError(t, err)
	staleB, err := store.configs.Load(ctx, testTenant)
	require.NoError(t, err)

	staleA.AddProvider(providerInput("a"))
	staleB.AddProvider(providerInput("b"))
	require.NoError(t, store.configs.Save(ctx, testTenant, staleA))
	require.NoError(t, store.configs.Save(ctx, testTenant, staleB))

	providers, err := store.configs.ListProviders(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "b", providers[0].Name)
}

func TestActiveProviderResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the bound account", func(t *testing.T) {
		store := newTestStore(t)
		account := store.seedProvider(t, "ch1")
		resolver := usecase.NewActiveProviderResolver(store.configs)

		cfg, resolved, err := resolver.Resolve(ctx, testTenant, "ch1")

		require.NoError(t, err)
		assert.Equal(t, account.ID, resolved.ID)
		assert.Len(t, cfg.Providers, 1)
	})

	t.Run("missing slug", func(t *testing.T) {
		store := newTestStore(t)
		resolver := usecase.NewActiveProviderResolver(store.configs)

		_, _, err := resolver.Resolve(ctx, testTenant, "")

		assert.ErrorIs(t, err, domainErrors.ErrNoChannelSlugFound)
	})

	t.Run("unbound channel", func(t *testing.T) {
		store := newTestStore(t)
		store.seedProvider(t, "ch1")
		resolver := usecase.NewActiveProviderResolver(store.configs)

		_, _, err := resolver.Resolve(ctx, testTenant, "ch2")

		assert.ErrorIs(t, err, domainErrors.ErrNoConnectionFound)
	})

	t.Run("connection to a deleted provider", func(t *testing.T) {
		store := newTestStore(t)
		account := store.seedProvider(t, "ch1")
		require.NoError(t, store.configs.DeleteProvider(ctx, testTenant, account.ID))
		resolver := usecase.NewActiveProviderResolver(store.configs)

		_, _, err := resolver.Resolve(ctx, testTenant, "ch1")

		assert.ErrorIs(t, err, domainErrors.ErrNoProviderFound)
		assert.Equal(t, domainErrors.KindConfiguration, domainErrors.KindOf(err))
	})
}
