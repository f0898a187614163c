package auth

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerifyDetachedJWS(t *testing.T) {
	key := []byte("host-secret")
	payload := []byte(`{"action":{"amount":"10.00","currency":"USD"}}`)

	signature, err := SignDetachedJWS(payload, key)
	require.NoError(t, err)
	assert.Contains(t, signature, "..")

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, VerifyDetachedJWS(signature, payload, key))
	})

	t.Run("tampered payload", func(t *testing.T) {
		assert.Error(t, VerifyDetachedJWS(signature, []byte(`{"action":{"amount":"1.00"}}`), key))
	})

	t.Run("wrong key", func(t *testing.T) {
		assert.Error(t, VerifyDetachedJWS(signature, payload, []byte("other")))
	})

	t.Run("attached payload is rejected", func(t *testing.T) {
		parts := strings.Split(signature, ".")
		attached := parts[0] + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + parts[2]
		assert.Error(t, VerifyDetachedJWS(attached, payload, key))
	})

	t.Run("alg none is rejected", func(t *testing.T) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
		assert.Error(t, VerifyDetachedJWS(header+"..", payload, key))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Error(t, VerifyDetachedJWS("", payload, key))
	})
}

func TestHostSignatureMiddleware(t *testing.T) {
	key := "host-secret"
	payload := `{"transaction":{"id":"txn-1"}}`

	run := func(t *testing.T, config HostSignatureConfig, tenant, signature string) (*httptest.ResponseRecorder, string) {
		t.Helper()
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/transaction-process-session", strings.NewReader(payload))
		if tenant != "" {
			req.Header.Set(HeaderHostAPIURL, tenant)
		}
		if signature != "" {
			req.Header.Set(HeaderHostSignature, signature)
		}
		rec := httptest.NewRecorder()

		var seenTenant string
		err := HostSignatureMiddleware(config)(func(c echo.Context) error {
			seenTenant, _ = GetTenant(c)
			body, err := io.ReadAll(c.Request().Body)
			require.NoError(t, err)
			assert.Equal(t, payload, string(body))
			return c.NoContent(http.StatusOK)
		})(e.NewContext(req, rec))
		require.NoError(t, err)
		return rec, seenTenant
	}

	signature, err := SignDetachedJWS([]byte(payload), []byte(key))
	require.NoError(t, err)

	t.Run("valid signature scopes the tenant", func(t *testing.T) {
		rec, tenant := run(t, HostSignatureConfig{Secret: key, Logger: zap.NewNop()}, testTenant, signature)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testTenant, tenant)
	})

	t.Run("invalid signature", func(t *testing.T) {
		rec, _ := run(t, HostSignatureConfig{Secret: "other", Logger: zap.NewNop()}, testTenant, signature)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_SIGNATURE")
	})

	t.Run("missing tenant", func(t *testing.T) {
		rec, _ := run(t, HostSignatureConfig{Secret: key, Logger: zap.NewNop()}, "", signature)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("verification disabled", func(t *testing.T) {
		rec, tenant := run(t, HostSignatureConfig{Logger: zap.NewNop()}, testTenant, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testTenant, tenant)
	})
}
