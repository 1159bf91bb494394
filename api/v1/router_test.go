package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/config"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/services"
	"github.com/admin-concierge/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zap.NewNop()
	return NewEngine(Dependencies{
		Config:   cfg,
		DB:       db,
		Services: services.New(db, cache.NopStore{}, cfg, log),
		Log:      log,
	}), db
}

func defaultRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	cfg := config.Defaults()
	cfg.RateLimit.Enabled = false
	return newTestRouter(t, cfg)
}

func request(r http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHealthCheck(t *testing.T) {
	r, _ := defaultRouter(t)

	w := request(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "development", body["environment"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestListCategories(t *testing.T) {
	r, _ := defaultRouter(t)

	w := request(r, http.MethodGet, "/api/compliance/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "success", env.Status)
	var categories []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	require.Len(t, categories, 5)
	assert.Equal(t, "Data Protection & Privacy", categories[0]["name"])
	assert.Len(t, categories[0]["items"], 3)
}

func TestUpdateItem(t *testing.T) {
	r, db := defaultRouter(t)
	var item models.ComplianceItem
	require.NoError(t, db.Where("title = ?", "Review Security Score").First(&item).Error)

	w := request(r, http.MethodPatch, "/api/compliance/items/"+itoa(item.ID), map[string]interface{}{
		"is_completed": true,
		"notes":        "Score reviewed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &updated))
	assert.Equal(t, true, updated["is_completed"])
	assert.Equal(t, "Admin", updated["completed_by"])
	assert.Equal(t, "Score reviewed", updated["notes"])
}

func TestUpdateItemErrors(t *testing.T) {
	r, _ := defaultRouter(t)

	w := request(r, http.MethodPatch, "/api/compliance/items/abc", map[string]interface{}{"is_completed": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid compliance item ID", decodeEnvelope(t, w).Message)

	w = request(r, http.MethodPatch, "/api/compliance/items/9999", map[string]interface{}{"is_completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "fail", decodeEnvelope(t, w).Status)

	w = request(r, http.MethodPatch, "/api/compliance/items/1", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No valid fields to update", decodeEnvelope(t, w).Message)
}

func TestEnvironmentLifecycle(t *testing.T) {
	r, _ := defaultRouter(t)

	w := request(r, http.MethodPost, "/api/environments", map[string]interface{}{
		"id":   "staging-1",
		"name": "Staging",
		"type": "Sandbox",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(r, http.MethodPost, "/api/environments", map[string]interface{}{"id": "staging-1", "name": "Again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(r, http.MethodPut, "/api/environments/staging-1", map[string]interface{}{"region": "Europe"})
	require.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodDelete, "/api/environments/staging-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Environment deleted successfully", env.Message)

	w = request(r, http.MethodGet, "/api/environments/staging-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEnvironmentWithItems(t *testing.T) {
	r, db := defaultRouter(t)
	envID := "prod-00000000-0000-0000-0000-000000000002"
	require.NoError(t, db.Model(&models.ComplianceItem{}).
		Where("title = ?", "Review Security Score").
		Update("environment_id", envID).Error)

	w := request(r, http.MethodDelete, "/api/environments/"+envID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete environment with associated compliance items", decodeEnvelope(t, w).Message)
}

func TestAuditExport(t *testing.T) {
	r, _ := defaultRouter(t)

	w := request(r, http.MethodPost, "/api/audit/logs", map[string]interface{}{
		"action":        "review",
		"resource_type": "report",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(r, http.MethodGet, "/api/audit/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Regexp(t, `^attachment; filename="audit-logs-\d{4}-\d{2}-\d{2}\.csv"$`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "ID,Action,Resource Type,Resource ID,User ID,Created At,Details\n"))

	w = request(r, http.MethodGet, "/api/audit/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodGet, "/api/audit/summary?days=week", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "days must be a whole number", decodeEnvelope(t, w).Message)
}

func TestDashboardAndCLIEndpoints(t *testing.T) {
	r, _ := defaultRouter(t)

	for _, path := range []string{
		"/api/compliance/summary",
		"/api/compliance/trends",
		"/api/dashboard/overview",
		"/api/dashboard/alerts",
		"/api/dashboard/analytics",
		"/api/dashboard/recommendations",
		"/api/cli/commands?search=environment",
		"/api/cli/commands/grouped",
		"/api/cli/categories",
		"/api/cli/quick-reference",
		"/api/cli/best-practices",
		"/api/audit/stats",
		"/api/audit/logs?page=1&limit=10",
	} {
		w := request(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "success", decodeEnvelope(t, w).Status, path)
	}

	w := request(r, http.MethodGet, "/api/cli/commands/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	r, _ := defaultRouter(t)

	w := request(r, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "fail", env.Status)
	assert.Equal(t, "Route /api/nothing-here not found", env.Message)
}

func TestAuthenticatedRoutes(t *testing.T) {
	hash, err := services.HashAPIKey("router-key")
	require.NoError(t, err)
	cfg := config.Defaults()
	cfg.RateLimit.Enabled = false
	cfg.Auth.APIKeyHash = hash
	cfg.Auth.JWTSecret = "router-secret"
	r, _ := newTestRouter(t, cfg)

	w := request(r, http.MethodGet, "/api/compliance/categories", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, http.MethodPost, "/api/auth/token", map[string]interface{}{
		"api_key": "router-key",
		"user_id": "riley",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var issued struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &issued))
	bearer := "Bearer " + issued.Token

	w = request(r, http.MethodGet, "/api/compliance/categories", nil, "Authorization", bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodDelete, "/api/environments/test-00000000-0000-0000-0000-000000000004", nil, "Authorization", bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(r, http.MethodPost, "/api/auth/logout", nil, "Authorization", bearer)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodGet, "/api/compliance/categories", nil, "Authorization", bearer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, http.MethodDelete, "/api/environments/test-00000000-0000-0000-0000-000000000004", nil, "X-API-Key", "router-key")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitedAPI(t *testing.T) {
	cfg := config.Defaults()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	r, _ := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/cli/best-practices", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, request(r, http.MethodGet, "/api/cli/best-practices", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", nil).Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
