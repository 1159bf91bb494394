package dto

import (
	"time"

	"github.com/admin-concierge/models"
)

type ComplianceOverview struct {
	TotalItems           int64    `json:"total_items"`
	CompletedItems       int64    `json:"completed_items"`
	CompletionPercentage *float64 `json:"completion_percentage"`
	PendingCritical      int64    `json:"pending_critical"`
	HealthScore          int64    `json:"health_score"`
}

type DailyCompletedCount struct {
	Date           string `json:"date"`
	CompletedCount int64  `json:"completed_count"`
}

type DailyItemsCompleted struct {
	Date           string `json:"date"`
	ItemsCompleted int64  `json:"items_completed"`
}

type CriticalItem struct {
	Category    string            `json:"category"`
	Title       string            `json:"title"`
	Importance  models.Importance `json:"importance"`
	Description string            `json:"description"`
}

type EnvironmentMetrics struct {
	TotalEnvironments int64 `json:"total_environments"`
	ActiveUsers       int64 `json:"active_users"`
}

// OverviewResponse is the composite dashboard payload
type OverviewResponse struct {
	ComplianceOverview ComplianceOverview    `json:"compliance_overview"`
	RecentActivity     []DailyCompletedCount `json:"recent_activity"`
	CriticalItems      []CriticalItem        `json:"critical_items"`
	EnvironmentMetrics EnvironmentMetrics    `json:"environment_metrics"`
	ComplianceTrend    []DailyItemsCompleted `json:"compliance_trend"`
}

type OverdueItem struct {
	Category   string            `json:"category"`
	Icon       string            `json:"icon"`
	Title      string            `json:"title"`
	Importance models.Importance `json:"importance"`
	CreatedAt  time.Time         `json:"created_at"`
}

type RecentCompletion struct {
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	CompletedAt *time.Time `json:"completed_at"`
	CompletedBy *string    `json:"completed_by"`
}

type SystemAlert struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
}

// AlertsResponse is returned by the dashboard alerts endpoint
type AlertsResponse struct {
	OverdueCritical   []OverdueItem      `json:"overdue_critical"`
	RecentCompletions []RecentCompletion `json:"recent_completions"`
	SystemAlerts      []SystemAlert      `json:"system_alerts"`
}

type CategoryStats struct {
	Name       string   `json:"name"`
	Icon       string   `json:"icon"`
	Total      int64    `json:"total"`
	Completed  int64    `json:"completed"`
	Percentage *float64 `json:"percentage"`
}

type ImportanceCount struct {
	Importance models.Importance `json:"importance"`
	Total      int64             `json:"total"`
	Completed  int64             `json:"completed"`
}

type MonthlyCompletions struct {
	Month          string `json:"month"`
	CompletedItems int64  `json:"completed_items"`
}

// AnalyticsResponse is returned by the dashboard analytics endpoint
type AnalyticsResponse struct {
	CategoryBreakdown      []CategoryStats      `json:"category_breakdown"`
	ImportanceDistribution []ImportanceCount    `json:"importance_distribution"`
	CompletionTrend        []DailyCompletions   `json:"completion_trend"`
	MonthlyProgress        []MonthlyCompletions `json:"monthly_progress"`
}

type PendingCriticalItem struct {
	Category          string `json:"category"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	DocumentationLink string `json:"documentation_link"`
}

type Recommendation struct {
	Priority    string                `json:"priority"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Action      string                `json:"action"`
	Category    string                `json:"category"`
	Items       []PendingCriticalItem `json:"items,omitempty"`
	CLICommands []string              `json:"cli_commands,omitempty"`
}
