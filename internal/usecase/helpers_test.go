package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/adapter/repository"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/infrastructure/crypto"
	"github.com/wekeepgrowing/authorize-net-app/internal/usecase"
)

const testTenant = "https://shop.example.com/graphql/"

var testEncryptionKey = strings.Repeat("0f", 32)

type testStore struct {
	repo    *repository.MemoryMetadataRepository
	configs *usecase.AppConfigService
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	cipher, err := crypto.NewAESEncryptionService(testEncryptionKey)
	require.NoError(t, err)

	repo := repository.NewMemoryMetadataRepository()
	return &testStore{
		repo:    repo,
		configs: usecase.NewAppConfigService(repo, cipher, validator.New(validator.WithRequiredStructEnabled()), zap.NewNop()),
	}
}

func providerInput(name string) entity.ProviderAccountInput {
	return entity.ProviderAccountInput{
		Name:            name,
		APILoginID:      "login-" + name,
		TransactionKey:  "txkey-" + name,
		PublicClientKey: "public-" + name,
		SignatureKey:    "SIGKEY" + strings.ToUpper(name),
		Environment:     entity.EnvironmentSandbox,
	}
}

// seedProvider stores a provider account bound to channelSlug
func (s *testStore) seedProvider(t *testing.T, channelSlug string) *entity.ProviderAccount {
	t.Helper()
	ctx := context.Background()

	account, err := s.configs.AddProvider(ctx, testTenant, providerInput(channelSlug))
	require.NoError(t, err)
	_, err = s.configs.SetConnection(ctx, testTenant, channelSlug, account.ID)
	require.NoError(t, err)
	return account
}
