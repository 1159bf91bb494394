package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/config"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	devEnvironment  = "dev-00000000-0000-0000-0000-000000000003"
	prodEnvironment = "prod-00000000-0000-0000-0000-000000000002"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return New(db, cache.NopStore{}, config.Defaults(), zap.NewNop()), db
}

// newCachedServices backs the dashboard cache with the database so cache
// behaviour is observable.
func newCachedServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return New(db, cache.NewDBStore(db, time.Minute), config.Defaults(), zap.NewNop()), db
}

func addEnvironment(t *testing.T, db *gorm.DB, id string) models.Environment {
	t.Helper()
	env := models.Environment{ID: id, Name: id, Type: models.EnvironmentSandbox}
	require.NoError(t, db.Create(&env).Error)
	return env
}

func cachedEntries(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.DashboardMetric{}).Count(&count).Error)
	return count
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func findItem(t *testing.T, db *gorm.DB, title string) models.ComplianceItem {
	t.Helper()
	var item models.ComplianceItem
	require.NoError(t, db.Where("title = ?", title).First(&item).Error)
	return item
}

func auditLogs(t *testing.T, db *gorm.DB, resourceType string) []models.AuditLog {
	t.Helper()
	var logs []models.AuditLog
	require.NoError(t, db.Where("resource_type = ?", resourceType).Order("id").Find(&logs).Error)
	return logs
}

func decodeDetails(t *testing.T, entry models.AuditLog) map[string]interface{} {
	t.Helper()
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	return details
}

func addCategory(t *testing.T, db *gorm.DB, name string, order int) models.ComplianceCategory {
	t.Helper()
	category := models.ComplianceCategory{Name: name, Icon: "🧪", OrderIndex: order}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func addItem(t *testing.T, db *gorm.DB, categoryID uint, title string, importance models.Importance, environmentID *string) models.ComplianceItem {
	t.Helper()
	item := models.ComplianceItem{
		CategoryID:    categoryID,
		Title:         title,
		Importance:    importance,
		EnvironmentID: environmentID,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}
