package middleware

import (
	"context"
	"strings"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/gin-gonic/gin"
)

// Context keys set by Auth
const (
	UserIDKey    = "userId"
	RoleKey      = "role"
	SessionIDKey = "sessionId"

	// AccessTokenCookie carries the token for browser clients
	AccessTokenCookie = "access_token"
	apiKeyHeader      = "X-API-Key"
	apiKeyUser        = "api-key"
)

// Authenticator verifies request credentials
type Authenticator interface {
	Enabled() bool
	VerifyAPIKey(key string) bool
	Authenticate(ctx context.Context, token string) (*dto.TokenClaims, error)
}

// Auth requires a valid bearer token, access token cookie or API key. It
// lets every request through when authentication is not configured.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Enabled() {
			c.Next()
			return
		}

		if token := extractToken(c); token != "" {
			claims, err := auth.Authenticate(c.Request.Context(), token)
			if err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			c.Set(UserIDKey, claims.UserID)
			c.Set(RoleKey, claims.Role)
			c.Set(SessionIDKey, claims.ID)
			c.Next()
			return
		}

		if key := c.GetHeader(apiKeyHeader); key != "" {
			if !auth.VerifyAPIKey(key) {
				_ = c.Error(apperrors.Unauthorized("Invalid API key"))
				c.Abort()
				return
			}
			c.Set(UserIDKey, apiKeyUser)
			c.Set(RoleKey, string(models.RoleAdmin))
			c.Next()
			return
		}

		_ = c.Error(apperrors.Unauthorized("Authentication required"))
		c.Abort()
	}
}

// RequireAdmin ensures the user has the admin role. Use it after Auth.
func RequireAdmin(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Enabled() {
			c.Next()
			return
		}

		role, exists := c.Get(RoleKey)
		if !exists {
			_ = c.Error(apperrors.Unauthorized("Authentication required"))
			c.Abort()
			return
		}

		if roleStr, ok := role.(string); !ok || roleStr != string(models.RoleAdmin) {
			_ = c.Error(apperrors.Forbidden("Admin privileges required"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated user, or "" for anonymous requests
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
