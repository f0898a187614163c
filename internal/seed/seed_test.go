package seed_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/adapter/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/crypto"
	"github.com/wekeepgrowing/authorize-net-app/internal/seed"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
)

const tenant = "https://shop.example.com/graphql/"

const document = `
tenants:
  - saleor_api_url: https://shop.example.com/graphql/
    app_token: app-token-1
    providers:
      - name: main
        api_login_id: login
        transaction_key: txkey
        signature_key: ABCDEF
        environment: sandbox
        channels: [default-channel, b2b]
`

type recordingRegistrar struct {
	calls []string
	err   error
}

func (r *recordingRegistrar) RegisterWebhook(_ context.Context, _, providerID string) (*entity.WebhookRegistration, error) {
	r.calls = append(r.calls, providerID)
	if r.err != nil {
		return nil, r.err
	}
	return &entity.WebhookRegistration{WebhookID: "wh-" + providerID}, nil
}

func newConfigs(t *testing.T) *usecase.AppConfigService {
	t.Helper()
	cipher, err := crypto.NewAESEncryptionService(strings.Repeat("0f", 32))
	require.NoError(t, err)
	return usecase.NewAppConfigService(
		repository.NewMemoryMetadataRepository(),
		cipher,
		validator.New(validator.WithRequiredStructEnabled()),
		zap.NewNop(),
	)
}

func TestParse(t *testing.T) {
	t.Run("decodes providers with inline account fields", func(t *testing.T) {
		file, err := seed.Parse(strings.NewReader(document))

		require.NoError(t, err)
		require.Len(t, file.Tenants, 1)
		require.Len(t, file.Tenants[0].Providers, 1)
		p := file.Tenants[0].Providers[0]
		assert.Equal(t, "login", p.APILoginID)
		assert.Equal(t, entity.EnvironmentSandbox, p.Environment)
		assert.Equal(t, []string{"default-channel", "b2b"}, p.Channels)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := seed.Parse(strings.NewReader("tenants:\n  - saleor_api_url: x\n    tokn: y\n"))

		assert.Error(t, err)
	})

	t.Run("tenant url is required", func(t *testing.T) {
		_, err := seed.Parse(strings.NewReader("tenants:\n  - app_token: y\n"))

		assert.ErrorContains(t, err, "saleor_api_url")
	})
}

func TestImporter_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token, provider and connections", func(t *testing.T) {
		configs := newConfigs(t)
		tokens := map[string]string{}
		importer := seed.NewImporter(configs, nil, func(_ context.Context, tenant, token string) error {
			tokens[tenant] = token
			return nil
		}, zap.NewNop())
		file, err := seed.Parse(strings.NewReader(document))
		require.NoError(t, err)

		require.NoError(t, importer.Apply(ctx, file))

		assert.Equal(t, "app-token-1", tokens[tenant])
		providers, err := configs.ListProviders(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, providers, 1)
		connections, err := configs.ListConnections(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, connections, 2)
		for _, c := range connections {
			assert.Equal(t, providers[0].ID, c.ProviderID)
		}
	})

	t.Run("registers webhooks on request", func(t *testing.T) {
		configs := newConfigs(t)
		registrar := &recordingRegistrar{}
		importer := seed.NewImporter(configs, registrar, func(context.Context, string, string) error { return nil }, zap.NewNop())
		file, err := seed.Parse(strings.NewReader(document))
		require.NoError(t, err)
		file.Tenants[0].Providers[0].RegisterWebhook = true

		require.NoError(t, importer.Apply(ctx, file))

		assert.Len(t, registrar.calls, 1)
	})

	t.Run("a failing tenant does not stop the others", func(t *testing.T) {
		configs := newConfigs(t)
		importer := seed.NewImporter(configs, nil, func(context.Context, string, string) error { return nil }, zap.NewNop())
		file := &seed.File{Tenants: []seed.Tenant{
			{SaleorAPIURL: "https://broken.example.com/graphql/", Providers: []seed.Provider{{}}},
			{SaleorAPIURL: tenant, Providers: []seed.Provider{{
				ProviderAccountInput: entity.ProviderAccountInput{
					Name:           "main",
					APILoginID:     "login",
					TransactionKey: "txkey",
					Environment:    entity.EnvironmentProduction,
				},
			}}},
		}}

		err := importer.Apply(ctx, file)

		assert.ErrorContains(t, err, "broken.example.com")
		providers, listErr := configs.ListProviders(ctx, tenant)
		require.NoError(t, listErr)
		assert.Len(t, providers, 1)
	})

	t.Run("token store failure", func(t *testing.T) {
		importer := seed.NewImporter(newConfigs(t), nil, func(context.Context, string, string) error {
			return errors.New("store down")
		}, zap.NewNop())
		file, err := seed.Parse(strings.NewReader(document))
		require.NoError(t, err)

		assert.ErrorContains(t, importer.Apply(ctx, file), "store down")
	})
}
