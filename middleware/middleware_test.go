package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/config"
	"github.com/admin-concierge/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	enabled bool
	key     string
	tokens  map[string]*dto.TokenClaims
}

func (f *fakeAuth) Enabled() bool {
	return f.enabled
}

func (f *fakeAuth) VerifyAPIKey(key string) bool {
	return key != "" && key == f.key
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*dto.TokenClaims, error) {
	if claims, ok := f.tokens[token]; ok {
		return claims, nil
	}
	return nil, apperrors.Unauthorized("Invalid or expired token")
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		enabled: true,
		key:     "secret-key",
		tokens: map[string]*dto.TokenClaims{
			"user-token": {
				UserID:           "riley",
				Role:             "user",
				RegisteredClaims: jwt.RegisteredClaims{ID: "session-1"},
			},
			"admin-token": {
				UserID:           "sam",
				Role:             "admin",
				RegisteredClaims: jwt.RegisteredClaims{ID: "session-2"},
			},
		},
	}
}

func newTestEngine(development bool) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(zap.NewNop(), development), RequestID(), ErrorHandler(zap.NewNop(), development))
	return r
}

func perform(r http.Handler, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperrors.KindValidation))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperrors.KindDependents))
	assert.Equal(t, http.StatusNotFound, StatusFor(apperrors.KindNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(apperrors.KindConflict))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(apperrors.KindUnauthorized))
	assert.Equal(t, http.StatusForbidden, StatusFor(apperrors.KindForbidden))
	assert.Equal(t, http.StatusTooManyRequests, StatusFor(apperrors.KindRateLimited))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(apperrors.KindInternal))
}

func TestErrorHandlerClientError(t *testing.T) {
	r := newTestEngine(false)
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("Environment"))
	})

	w := perform(r, http.MethodGet, "/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]interface{}{"status": "fail", "message": "Environment not found"}, decode(t, w))
}

func TestErrorHandlerMasksServerErrorsInProduction(t *testing.T) {
	r := newTestEngine(false)
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("database is locked"))
	})

	w := perform(r, http.MethodGet, "/broken", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"status": "error", "message": genericErrorMessage}, decode(t, w))
}

func TestErrorHandlerShowsCauseInDevelopment(t *testing.T) {
	r := newTestEngine(true)
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("database is locked"))
	})

	body := decode(t, perform(r, http.MethodGet, "/broken", nil, nil))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Unexpected error", body["message"])
	assert.Equal(t, "database is locked", body["error"])
}

func TestRecovery(t *testing.T) {
	r := newTestEngine(false)
	r.GET("/panic", func(c *gin.Context) {
		panic("unexpected state")
	})

	w := perform(r, http.MethodGet, "/panic", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, genericErrorMessage, decode(t, w)["message"])
}

func TestRequestID(t *testing.T) {
	r := newTestEngine(false)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := perform(r, http.MethodGet, "/ping", nil, map[string]string{RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())

	w = perform(r, http.MethodGet, "/ping", nil, nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := newTestEngine(false)
	r.Use(RateLimit(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}))
	r.GET("/limited", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodGet, "/limited", nil, nil).Code)
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodGet, "/limited", nil, nil).Code)

	w := perform(r, http.MethodGet, "/limited", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests from this IP, please try again later.", decode(t, w)["message"])
}

func TestRateLimitDisabled(t *testing.T) {
	r := newTestEngine(false)
	r.Use(RateLimit(config.RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, Burst: 1}))
	r.GET("/open", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, perform(r, http.MethodGet, "/open", nil, nil).Code)
	}
}

func TestIPRateLimiterTracksClientsSeparately(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestBodyLimit(t *testing.T) {
	r := newTestEngine(false)
	r.Use(BodyLimit(16))
	r.POST("/echo", func(c *gin.Context) {
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			_ = c.Error(apperrors.InvalidInput(err))
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := perform(r, http.MethodPost, "/echo", strings.NewReader(`{"notes":"far too long for the limit"}`),
		map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Request body too large", decode(t, w)["message"])

	w = perform(r, http.MethodPost, "/echo", strings.NewReader(`{"a":1}`),
		map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func authEngine(auth Authenticator) *gin.Engine {
	r := newTestEngine(false)
	r.Use(Auth(auth))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUserID(c), "session": c.GetString(SessionIDKey)})
	})
	r.DELETE("/admin", RequireAdmin(auth), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthDisabled(t *testing.T) {
	auth := newFakeAuth()
	auth.enabled = false
	r := authEngine(auth)

	w := perform(r, http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["user"])
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodDelete, "/admin", nil, nil).Code)
}

func TestAuthRequiresCredentials(t *testing.T) {
	r := authEngine(newFakeAuth())

	w := perform(r, http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", decode(t, w)["message"])

	w = perform(r, http.MethodGet, "/me", nil, map[string]string{"Authorization": "Bearer forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", nil, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid API key", decode(t, w)["message"])
}

func TestAuthAcceptsTokens(t *testing.T) {
	r := authEngine(newFakeAuth())

	w := perform(r, http.MethodGet, "/me", nil, map[string]string{"Authorization": "Bearer user-token"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"user": "riley", "session": "session-1"}, decode(t, w))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "admin-token"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sam", decode(t, w)["user"])
}

func TestRequireAdmin(t *testing.T) {
	r := authEngine(newFakeAuth())

	w := perform(r, http.MethodDelete, "/admin", nil, map[string]string{"Authorization": "Bearer user-token"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin privileges required", decode(t, w)["message"])

	w = perform(r, http.MethodDelete, "/admin", nil, map[string]string{"Authorization": "Bearer admin-token"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(r, http.MethodDelete, "/admin", nil, map[string]string{"X-API-Key": "secret-key"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
