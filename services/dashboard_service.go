package services

import (
	"context"
	"fmt"
	"time"

	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	overdueAfter          = 7 * 24 * time.Hour
	recentCompletionLimit = 5
	criticalItemsLimit    = 5
	recommendedItemsLimit = 3
	monthlyProgressMonths = 6
)

// DashboardService builds the composite dashboard views
type DashboardService struct {
	complianceRepo  *repositories.ComplianceRepository
	environmentRepo *repositories.EnvironmentRepository
	auditRepo       *repositories.AuditLogRepository
	cache           cache.Store
	log             *zap.Logger
	now             func() time.Time
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(db *gorm.DB, store cache.Store, log *zap.Logger) *DashboardService {
	return &DashboardService{
		complianceRepo:  repositories.NewComplianceRepository(db),
		environmentRepo: repositories.NewEnvironmentRepository(db),
		auditRepo:       repositories.NewAuditLogRepository(db),
		cache:           store,
		log:             log,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Overview returns the dashboard payload for environmentID, served from the
// metrics cache while fresh. Ids that name no environment are computed on
// every request and never cached.
func (s *DashboardService) Overview(ctx context.Context, environmentID string) (dto.OverviewResponse, error) {
	known, err := knownEnvironment(ctx, s.environmentRepo, environmentID)
	if err != nil {
		return dto.OverviewResponse{}, err
	}
	if !known {
		return s.buildOverview(ctx, environmentID)
	}
	return cache.Fetch(ctx, s.cache, s.log, overviewCacheKey(environmentID), func(ctx context.Context) (dto.OverviewResponse, error) {
		return s.buildOverview(ctx, environmentID)
	})
}

// overviewCacheKey keeps the unfiltered view apart from every environment,
// whatever its id.
func overviewCacheKey(environmentID string) string {
	if environmentID == "" {
		return "overview:unfiltered"
	}
	return "overview:env=" + environmentID
}

func (s *DashboardService) buildOverview(ctx context.Context, environmentID string) (dto.OverviewResponse, error) {
	var response dto.OverviewResponse
	now := s.now()

	overall, err := s.complianceRepo.Tally(ctx, environmentID, "")
	if err != nil {
		return response, err
	}
	critical, err := s.complianceRepo.Tally(ctx, environmentID, models.ImportanceCritical)
	if err != nil {
		return response, err
	}
	response.ComplianceOverview = dto.ComplianceOverview{
		TotalItems:           overall.Total,
		CompletedItems:       overall.Completed,
		CompletionPercentage: Percentage(overall.Completed, overall.Total),
		PendingCritical:      critical.Total - critical.Completed,
		HealthScore:          HealthScore(critical.Completed, critical.Total),
	}

	weekTimes, err := s.complianceRepo.CompletionTimes(ctx, environmentID, daysAgo(now, 7))
	if err != nil {
		return response, err
	}
	weekBuckets := bucketize(weekTimes, dateLayout)
	response.RecentActivity = make([]dto.DailyCompletedCount, 0, len(weekBuckets))
	for i := len(weekBuckets) - 1; i >= 0 && len(response.RecentActivity) < 7; i-- {
		response.RecentActivity = append(response.RecentActivity, dto.DailyCompletedCount{
			Date:           weekBuckets[i].key,
			CompletedCount: weekBuckets[i].count,
		})
	}

	pending, err := s.complianceRepo.PendingCritical(ctx, environmentID, time.Time{}, criticalItemsLimit)
	if err != nil {
		return response, err
	}
	response.CriticalItems = make([]dto.CriticalItem, 0, len(pending))
	for _, item := range pending {
		response.CriticalItems = append(response.CriticalItems, dto.CriticalItem{
			Category:    item.Category,
			Title:       item.Title,
			Importance:  item.Importance,
			Description: item.Description,
		})
	}

	environments, err := s.environmentRepo.Count(ctx)
	if err != nil {
		return response, err
	}
	activeUsers, err := s.auditRepo.CountUsersSince(ctx, daysAgo(now, 30))
	if err != nil {
		return response, err
	}
	response.EnvironmentMetrics = dto.EnvironmentMetrics{
		TotalEnvironments: environments,
		ActiveUsers:       activeUsers,
	}

	monthTimes, err := s.complianceRepo.CompletionTimes(ctx, environmentID, daysAgo(now, 30))
	if err != nil {
		return response, err
	}
	monthBuckets := bucketize(monthTimes, dateLayout)
	response.ComplianceTrend = make([]dto.DailyItemsCompleted, 0, len(monthBuckets))
	for _, b := range monthBuckets {
		response.ComplianceTrend = append(response.ComplianceTrend, dto.DailyItemsCompleted{
			Date:           b.key,
			ItemsCompleted: b.count,
		})
	}

	return response, nil
}

// Alerts lists overdue critical items, recent completions and the standing
// system notices.
func (s *DashboardService) Alerts(ctx context.Context) (dto.AlertsResponse, error) {
	var response dto.AlertsResponse
	now := s.now()

	overdue, err := s.complianceRepo.PendingCritical(ctx, "", now.Add(-overdueAfter), 0)
	if err != nil {
		return response, err
	}
	response.OverdueCritical = make([]dto.OverdueItem, 0, len(overdue))
	for _, item := range overdue {
		response.OverdueCritical = append(response.OverdueCritical, dto.OverdueItem{
			Category:   item.Category,
			Icon:       item.CategoryIcon,
			Title:      item.Title,
			Importance: item.Importance,
			CreatedAt:  item.CreatedAt,
		})
	}

	recent, err := s.complianceRepo.RecentCompletions(ctx, now.Add(-24*time.Hour), recentCompletionLimit)
	if err != nil {
		return response, err
	}
	response.RecentCompletions = make([]dto.RecentCompletion, 0, len(recent))
	for _, item := range recent {
		response.RecentCompletions = append(response.RecentCompletions, dto.RecentCompletion{
			Category:    item.Category,
			Title:       item.Title,
			CompletedAt: item.CompletedAt,
			CompletedBy: item.CompletedBy,
		})
	}

	response.SystemAlerts = []dto.SystemAlert{
		{
			ID:        1,
			Type:      "info",
			Title:     "Environment Health Check",
			Message:   "All environments are operating normally",
			Timestamp: now,
			Category:  "system",
		},
		{
			ID:        2,
			Type:      "warning",
			Title:     "DLP Policy Review Due",
			Message:   "DLP policies should be reviewed monthly. Last review was 25 days ago.",
			Timestamp: daysAgo(now, 25),
			Category:  "governance",
		},
	}

	return response, nil
}

// Analytics returns category and importance breakdowns with completion
// trends, served from the metrics cache while fresh.
func (s *DashboardService) Analytics(ctx context.Context) (dto.AnalyticsResponse, error) {
	return cache.Fetch(ctx, s.cache, s.log, "analytics", s.buildAnalytics)
}

func (s *DashboardService) buildAnalytics(ctx context.Context) (dto.AnalyticsResponse, error) {
	var response dto.AnalyticsResponse
	now := s.now()

	categories, err := s.complianceRepo.CategoryTallies(ctx, "")
	if err != nil {
		return response, err
	}
	response.CategoryBreakdown = make([]dto.CategoryStats, 0, len(categories))
	for _, c := range categories {
		response.CategoryBreakdown = append(response.CategoryBreakdown, dto.CategoryStats{
			Name:       c.Name,
			Icon:       c.Icon,
			Total:      c.Total,
			Completed:  c.Completed,
			Percentage: Percentage(c.Completed, c.Total),
		})
	}

	importances, err := s.complianceRepo.ImportanceTallies(ctx, "")
	if err != nil {
		return response, err
	}
	response.ImportanceDistribution = make([]dto.ImportanceCount, 0, len(importances))
	for _, t := range orderByImportance(importances) {
		response.ImportanceDistribution = append(response.ImportanceDistribution, dto.ImportanceCount{
			Importance: t.Importance,
			Total:      t.Total,
			Completed:  t.Completed,
		})
	}

	daily, err := s.complianceRepo.CompletionTimes(ctx, "", daysAgo(now, 30))
	if err != nil {
		return response, err
	}
	response.CompletionTrend = dailyCompletions(daily)

	monthly, err := s.complianceRepo.CompletionTimes(ctx, "", now.AddDate(0, -monthlyProgressMonths, 0))
	if err != nil {
		return response, err
	}
	monthBuckets := bucketize(monthly, monthLayout)
	response.MonthlyProgress = make([]dto.MonthlyCompletions, 0, len(monthBuckets))
	for _, b := range monthBuckets {
		response.MonthlyProgress = append(response.MonthlyProgress, dto.MonthlyCompletions{
			Month:          b.key,
			CompletedItems: b.count,
		})
	}

	return response, nil
}

// Recommendations returns the prioritized action list. The first entry names
// up to three pending critical items.
func (s *DashboardService) Recommendations(ctx context.Context) ([]dto.Recommendation, error) {
	critical, err := s.complianceRepo.Tally(ctx, "", models.ImportanceCritical)
	if err != nil {
		return nil, err
	}
	pending, err := s.complianceRepo.PendingCritical(ctx, "", time.Time{}, recommendedItemsLimit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PendingCriticalItem, 0, len(pending))
	for _, item := range pending {
		items = append(items, dto.PendingCriticalItem{
			Category:          item.Category,
			Title:             item.Title,
			Description:       item.Description,
			DocumentationLink: item.DocumentationLink,
		})
	}

	return []dto.Recommendation{
		{
			Priority: "high",
			Title:    "Complete Critical Compliance Items",
			Description: fmt.Sprintf("You have %d critical compliance items pending. "+
				"These should be addressed immediately to maintain security posture.", critical.Total-critical.Completed),
			Action:   "Review and complete critical checklist items",
			Category: "compliance",
			Items:    items,
		},
		{
			Priority:    "medium",
			Title:       "Schedule Regular DLP Policy Reviews",
			Description: "Data Loss Prevention policies should be reviewed monthly to ensure they align with organizational changes.",
			Action:      "Set up monthly DLP policy review meetings",
			Category:    "governance",
			CLICommands: []string{"pac connector list"},
		},
		{
			Priority:    "medium",
			Title:       "Monitor Environment Health",
			Description: "Regular monitoring of environment health helps identify issues before they impact users.",
			Action:      "Set up automated environment health checks",
			Category:    "monitoring",
			CLICommands: []string{"pac environment list", "pac analytics list"},
		},
		{
			Priority:    "low",
			Title:       "User Access Audit",
			Description: "Quarterly review of user access and permissions helps maintain security and compliance.",
			Action:      "Schedule quarterly access reviews",
			Category:    "security",
			CLICommands: []string{"pac user list --environment-id {env-id}"},
		},
	}, nil
}
