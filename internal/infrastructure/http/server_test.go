package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{
			Name:           "authorize-net",
			Version:        "test",
			AdminJWTSecret: "admin-secret",
		},
	}
}

func serve(t *testing.T, srv *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	out := map[string]string{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestServer_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := NewServer(testConfig(), zap.NewNop(), Services{
			Health: func(context.Context) error { return nil },
		})

		rec, body := serve(t, srv, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "test", body["version"])
	})

	t.Run("store unreachable", func(t *testing.T) {
		srv := NewServer(testConfig(), zap.NewNop(), Services{
			Health: func(context.Context) error { return errors.New("connection refused") },
		})

		rec, body := serve(t, srv, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unhealthy", body["status"])
	})
}

func TestServer_ErrorResponses(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), Services{})

	t.Run("unknown route", func(t *testing.T) {
		rec, body := serve(t, srv, http.MethodGet, "/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", body["code"])
	})

	t.Run("admin routes require a token", func(t *testing.T) {
		rec, _ := serve(t, srv, http.MethodGet, "/api/v1/providers", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("sync webhooks require the host api url", func(t *testing.T) {
		rec, _ := serve(t, srv, http.MethodPost, "/api/webhooks/transaction-process-session", "{}")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
