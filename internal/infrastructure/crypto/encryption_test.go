package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewAESEncryptionService(t *testing.T) {
	t.Run("rejects non hex key", func(t *testing.T) {
		_, err := NewAESEncryptionService("not-hex")
		assert.Error(t, err)
	})

	t.Run("rejects short key", func(t *testing.T) {
		_, err := NewAESEncryptionService("0011")
		assert.Error(t, err)
	})

	t.Run("accepts 32 byte key", func(t *testing.T) {
		svc, err := NewAESEncryptionService(testKey)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestAESEncryptionService_RoundTrip(t *testing.T) {
	svc, err := NewAESEncryptionService(testKey)
	require.NoError(t, err)

	sealed, err := svc.Encrypt("https://shop.example.com/graphql/", `{"providers":[]}`)
	require.NoError(t, err)
	assert.Contains(t, sealed, `"iv"`)
	assert.Contains(t, sealed, `"data"`)
	assert.NotContains(t, sealed, "providers")

	plain, err := svc.Decrypt("https://shop.example.com/graphql/", sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"providers":[]}`, plain)
}

func TestAESEncryptionService_TenantIsolation(t *testing.T) {
	svc, err := NewAESEncryptionService(testKey)
	require.NoError(t, err)

	sealed, err := svc.Encrypt("tenant-a", "secret")
	require.NoError(t, err)

	_, err = svc.Decrypt("tenant-b", sealed)
	assert.Error(t, err)
}

func TestAESEncryptionService_RejectsTamperedData(t *testing.T) {
	svc, err := NewAESEncryptionService(testKey)
	require.NoError(t, err)

	_, err = svc.Decrypt("tenant-a", "not json")
	assert.Error(t, err)

	sealed, err := svc.Encrypt("tenant-a", "secret")
	require.NoError(t, err)

	tampered := strings.Replace(sealed, `"data":"`, `"data":"AA`, 1)
	_, err = svc.Decrypt("tenant-a", tampered)
	assert.Error(t, err)
}
