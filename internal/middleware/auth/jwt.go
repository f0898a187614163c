package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantClaim names the claim carrying the host API URL an admin token is scoped to
const TenantClaim = "saleor_api_url"

// AdminUser represents an authenticated admin from JWT
type AdminUser struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Tenant  string `json:"tenant"`
}

// contextKey is used for storing user in context
type contextKey string

const (
	userContextKey   contextKey = "authenticated_admin"
	tenantContextKey contextKey = "tenant"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	Logger    *zap.Logger
	SkipPaths []string
}

// JWTMiddleware validates HS256 admin tokens and scopes the request to the token's tenant
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authorization header required",
					"code":  "MISSING_AUTH_HEADER",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid authorization header format. Expected: Bearer <token>",
					"code":  "INVALID_AUTH_FORMAT",
				})
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})
			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				config.Logger.Warn("Invalid JWT claims",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid token claims",
					"code":  "INVALID_CLAIMS",
				})
			}

			tenant, _ := claims[TenantClaim].(string)
			if tenant == "" {
				config.Logger.Warn("Token is not scoped to a tenant",
					zap.String("path", path))
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "Token has no " + TenantClaim + " claim",
					"code":  "MISSING_TENANT",
				})
			}

			subject, _ := claims.GetSubject()
			email, _ := claims["email"].(string)
			admin := &AdminUser{
				Subject: subject,
				Email:   email,
				Tenant:  tenant,
			}

			ctx := context.WithValue(c.Request().Context(), userContextKey, admin)
			ctx = context.WithValue(ctx, tenantContextKey, tenant)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("tenant", tenant)

			config.Logger.Debug("Admin authenticated",
				zap.String("tenant", tenant),
				zap.String("subject", subject),
				zap.String("path", path))

			return next(c)
		}
	}
}

// GetUserFromContext extracts the authenticated admin from the request context
func GetUserFromContext(c echo.Context) (*AdminUser, error) {
	user, ok := c.Request().Context().Value(userContextKey).(*AdminUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user found in context")
	}
	return user, nil
}

// RequireAuth returns the admin or writes a 401 response
func RequireAuth(c echo.Context) (*AdminUser, error) {
	user, err := GetUserFromContext(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}
	return user, nil
}

// GetTenant returns the tenant the request was authenticated for, by admin token or host webhook
func GetTenant(c echo.Context) (string, error) {
	tenant, ok := c.Request().Context().Value(tenantContextKey).(string)
	if !ok || tenant == "" {
		return "", fmt.Errorf("no tenant found in context")
	}
	return tenant, nil
}

// WithTenant stores tenant on the request context
func WithTenant(c echo.Context, tenant string) {
	ctx := context.WithValue(c.Request().Context(), tenantContextKey, tenant)
	c.SetRequest(c.Request().WithContext(ctx))
	c.Set("tenant", tenant)
}
