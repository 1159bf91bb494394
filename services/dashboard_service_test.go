package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOverviewWithNoCompletions(t *testing.T) {
	svc, _ := newTestServices(t)

	overview, err := svc.Dashboard.Overview(context.Background(), "")
	require.NoError(t, err)

	assert.EqualValues(t, 11, overview.ComplianceOverview.TotalItems)
	assert.EqualValues(t, 4, overview.ComplianceOverview.PendingCritical)
	assert.EqualValues(t, 0, overview.ComplianceOverview.HealthScore)
	assert.Empty(t, overview.RecentActivity)
	assert.Empty(t, overview.ComplianceTrend)
	assert.Len(t, overview.CriticalItems, 4)
	assert.EqualValues(t, 4, overview.EnvironmentMetrics.TotalEnvironments)
	assert.EqualValues(t, 0, overview.EnvironmentMetrics.ActiveUsers)
}

func TestOverviewAfterCompletion(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	item := findItem(t, db, "Create and Review DLP Policies")
	_, err := svc.Compliance.UpdateItem(ctx, item.ID, dto.UpdateItemRequest{
		IsCompleted: boolPtr(true),
		CompletedBy: strPtr("riley"),
	}, RequestMeta{})
	require.NoError(t, err)

	overview, err := svc.Dashboard.Overview(ctx, "")
	require.NoError(t, err)

	assert.EqualValues(t, 1, overview.ComplianceOverview.CompletedItems)
	assert.EqualValues(t, 3, overview.ComplianceOverview.PendingCritical)
	assert.EqualValues(t, 25, overview.ComplianceOverview.HealthScore)
	assert.Equal(t, 9.1, *overview.ComplianceOverview.CompletionPercentage)

	today := time.Now().UTC().Format(dateLayout)
	require.Len(t, overview.RecentActivity, 1)
	assert.Equal(t, today, overview.RecentActivity[0].Date)
	assert.EqualValues(t, 1, overview.RecentActivity[0].CompletedCount)
	require.Len(t, overview.ComplianceTrend, 1)
	assert.EqualValues(t, 1, overview.ComplianceTrend[0].ItemsCompleted)

	require.Len(t, overview.CriticalItems, 3)
	for _, c := range overview.CriticalItems {
		assert.NotEqual(t, "Create and Review DLP Policies", c.Title)
		assert.Equal(t, models.ImportanceCritical, c.Importance)
		assert.NotEmpty(t, c.Category)
	}
	assert.EqualValues(t, 1, overview.EnvironmentMetrics.ActiveUsers)
}

func TestOverviewHealthScoreWithoutCriticalItems(t *testing.T) {
	svc, db := newTestServices(t)
	require.NoError(t, db.Where("importance = ?", models.ImportanceCritical).Delete(&models.ComplianceItem{}).Error)

	overview, err := svc.Dashboard.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 100, overview.ComplianceOverview.HealthScore)
	assert.EqualValues(t, 0, overview.ComplianceOverview.PendingCritical)
	assert.Empty(t, overview.CriticalItems)
}

func TestOverviewIsCachedUntilMutation(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := cache.NewDBStore(db, time.Minute)
	recorder := NewAuditRecorder(zap.NewNop())
	dashboard := NewDashboardService(db, store, zap.NewNop())
	compliance := NewComplianceService(db, recorder, store, zap.NewNop())
	ctx := context.Background()

	first, err := dashboard.Overview(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 0, first.ComplianceOverview.CompletedItems)

	require.NoError(t, db.Model(&models.ComplianceItem{}).
		Where("title = ?", "Monitor Tenant Analytics").
		Update("is_completed", true).Error)

	cached, err := dashboard.Overview(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 0, cached.ComplianceOverview.CompletedItems)

	item := findItem(t, db, "Review Security Score")
	_, err = compliance.UpdateItem(ctx, item.ID, dto.UpdateItemRequest{IsCompleted: boolPtr(true)}, RequestMeta{})
	require.NoError(t, err)

	fresh, err := dashboard.Overview(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, fresh.ComplianceOverview.CompletedItems)
}

func TestAlerts(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -10)
	require.NoError(t, db.Model(&models.ComplianceItem{}).
		Where("title = ?", "Identify Regulatory Standards").
		Update("created_at", old).Error)

	item := findItem(t, db, "Monitor Environment Health")
	_, err := svc.Compliance.UpdateItem(ctx, item.ID, dto.UpdateItemRequest{IsCompleted: boolPtr(true)}, RequestMeta{})
	require.NoError(t, err)

	alerts, err := svc.Dashboard.Alerts(ctx)
	require.NoError(t, err)

	require.Len(t, alerts.OverdueCritical, 1)
	assert.Equal(t, "Identify Regulatory Standards", alerts.OverdueCritical[0].Title)
	assert.Equal(t, "Compliance & Governance", alerts.OverdueCritical[0].Category)
	assert.Equal(t, "📋", alerts.OverdueCritical[0].Icon)

	require.Len(t, alerts.RecentCompletions, 1)
	assert.Equal(t, "Monitor Environment Health", alerts.RecentCompletions[0].Title)
	assert.Equal(t, DefaultCompleter, *alerts.RecentCompletions[0].CompletedBy)

	require.Len(t, alerts.SystemAlerts, 2)
	assert.Equal(t, "info", alerts.SystemAlerts[0].Type)
	assert.Equal(t, "DLP Policy Review Due", alerts.SystemAlerts[1].Title)
	assert.Equal(t, "governance", alerts.SystemAlerts[1].Category)
}

func TestAnalytics(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	item := findItem(t, db, "Configure Customer-Managed Keys")
	_, err := svc.Compliance.UpdateItem(ctx, item.ID, dto.UpdateItemRequest{IsCompleted: boolPtr(true)}, RequestMeta{})
	require.NoError(t, err)

	analytics, err := svc.Dashboard.Analytics(ctx)
	require.NoError(t, err)

	require.Len(t, analytics.CategoryBreakdown, 5)
	assert.Equal(t, "Data Protection & Privacy", analytics.CategoryBreakdown[0].Name)
	assert.EqualValues(t, 1, analytics.CategoryBreakdown[0].Completed)
	assert.Equal(t, 33.3, *analytics.CategoryBreakdown[0].Percentage)

	require.Len(t, analytics.ImportanceDistribution, 3)
	assert.Equal(t, models.ImportanceCritical, analytics.ImportanceDistribution[0].Importance)
	assert.EqualValues(t, 1, analytics.ImportanceDistribution[1].Completed)

	require.Len(t, analytics.CompletionTrend, 1)
	require.Len(t, analytics.MonthlyProgress, 1)
	assert.Equal(t, time.Now().UTC().Format(monthLayout), analytics.MonthlyProgress[0].Month)
	assert.EqualValues(t, 1, analytics.MonthlyProgress[0].CompletedItems)
}

func TestRecommendations(t *testing.T) {
	svc, _ := newTestServices(t)

	recommendations, err := svc.Dashboard.Recommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, recommendations, 4)

	first := recommendations[0]
	assert.Equal(t, "high", first.Priority)
	assert.True(t, strings.HasPrefix(first.Description, "You have 4 critical compliance items pending."))
	assert.Len(t, first.Items, 3)
	assert.Empty(t, first.CLICommands)

	assert.Equal(t, []string{"pac connector list"}, recommendations[1].CLICommands)
	assert.Equal(t, "low", recommendations[3].Priority)
}

func TestOverviewCacheSeparatesEnvironmentNamedAll(t *testing.T) {
	svc, db := newCachedServices(t)
	ctx := context.Background()

	addEnvironment(t, db, "all")
	category := findItem(t, db, "Review Security Score").CategoryID
	allID, devID := "all", devEnvironment
	addItem(t, db, category, "Scoped To All", models.ImportanceLow, &allID)
	addItem(t, db, category, "Scoped To Dev", models.ImportanceLow, &devID)

	unfiltered, err := svc.Dashboard.Overview(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 13, unfiltered.ComplianceOverview.TotalItems)

	scoped, err := svc.Dashboard.Overview(ctx, "all")
	require.NoError(t, err)
	assert.EqualValues(t, 12, scoped.ComplianceOverview.TotalItems)

	again, err := svc.Dashboard.Overview(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 13, again.ComplianceOverview.TotalItems)
	assert.EqualValues(t, 2, cachedEntries(t, db))
}

func TestOverviewDoesNotCacheUnknownEnvironments(t *testing.T) {
	svc, db := newCachedServices(t)
	ctx := context.Background()

	for _, id := range []string{"no-such-env-1", "no-such-env-2"} {
		overview, err := svc.Dashboard.Overview(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, 11, overview.ComplianceOverview.TotalItems)
	}
	assert.EqualValues(t, 0, cachedEntries(t, db))

	_, err := svc.Dashboard.Overview(ctx, devEnvironment)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cachedEntries(t, db))
}
