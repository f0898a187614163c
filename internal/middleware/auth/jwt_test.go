package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTenant = "https://shop.example.com/graphql/"

func createJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tokenString
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       "staff-1",
		"email":     "admin@example.com",
		TenantClaim: testTenant,
		"exp":       time.Now().Add(time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}
}

func runJWT(t *testing.T, config JWTConfig, path, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	err := JWTMiddleware(config)(next)(e.NewContext(req, rec))
	require.NoError(t, err)
	return rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	config := JWTConfig{Secret: "test-secret", Logger: zap.NewNop()}

	rec := runJWT(t, config, "/api/v1/providers", "Bearer "+createJWT(t, validClaims()), func(c echo.Context) error {
		user, err := GetUserFromContext(c)
		require.NoError(t, err)
		assert.Equal(t, "staff-1", user.Subject)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.Equal(t, testTenant, user.Tenant)

		tenant, err := GetTenant(c)
		require.NoError(t, err)
		assert.Equal(t, testTenant, tenant)
		return okHandler(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	config := JWTConfig{Secret: "test-secret", Logger: zap.NewNop()}

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noTenant := validClaims()
	delete(noTenant, TenantClaim)

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	otherKeyString, err := otherKey.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "MISSING_AUTH_HEADER"},
		{name: "not a bearer token", header: "Basic abc", status: http.StatusUnauthorized, code: "INVALID_AUTH_FORMAT"},
		{name: "expired", header: "Bearer " + createJWT(t, expired), status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
		{name: "wrong key", header: "Bearer " + otherKeyString, status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
		{name: "no tenant claim", header: "Bearer " + createJWT(t, noTenant), status: http.StatusForbidden, code: "MISSING_TENANT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runJWT(t, config, "/api/v1/providers", tt.header, okHandler)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	config := JWTConfig{
		Secret:    "test-secret",
		Logger:    zap.NewNop(),
		SkipPaths: []string{"/health"},
	}

	rec := runJWT(t, config, "/health", "", okHandler)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTenant_Empty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())

	_, err := GetTenant(c)
	assert.Error(t, err)

	_, err = GetUserFromContext(c)
	assert.Error(t, err)
}
