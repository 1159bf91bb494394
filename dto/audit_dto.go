package dto

import (
	"encoding/json"
	"time"

	"github.com/admin-concierge/models"
)

// AuditListQuery holds the audit log list filters
type AuditListQuery struct {
	Page         int    `form:"page" binding:"omitempty,min=1"`
	Limit        int    `form:"limit" binding:"omitempty,min=1"`
	Action       string `form:"action"`
	ResourceType string `form:"resource_type"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
}

// AuditExportQuery holds the audit export parameters
type AuditExportQuery struct {
	Format    string `form:"format"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// CreateAuditLogRequest appends a client-supplied audit entry
type CreateAuditLogRequest struct {
	Action        string          `json:"action"`
	ResourceType  string          `json:"resource_type"`
	ResourceID    string          `json:"resource_id"`
	EnvironmentID *string         `json:"environment_id"`
	UserID        string          `json:"user_id"`
	Details       json.RawMessage `json:"details"`
	IPAddress     string          `json:"ip_address"`
	UserAgent     string          `json:"user_agent"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int64 `json:"total_pages"`
}

// AuditLogListResponse is one page of audit entries
type AuditLogListResponse struct {
	Logs       []models.AuditLog `json:"logs"`
	Pagination Pagination        `json:"pagination"`
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

type DailyActivity struct {
	Date          string `json:"date"`
	ActivityCount int64  `json:"activity_count"`
}

type UserActivity struct {
	UserID      string `json:"user_id"`
	ActionCount int64  `json:"action_count"`
}

type RecentAudit struct {
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuditTotals struct {
	TotalActions int64 `json:"total_actions"`
	PeriodDays   int   `json:"period_days"`
}

// AuditSummaryResponse is returned by the audit summary endpoint
type AuditSummaryResponse struct {
	Summary        AuditTotals     `json:"summary"`
	ActionsByType  []ActionCount   `json:"actions_by_type"`
	ActivityTrend  []DailyActivity `json:"activity_trend"`
	TopUsers       []UserActivity  `json:"top_users"`
	RecentActivity []RecentAudit   `json:"recent_activity"`
}

type ActivityStats struct {
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"this_week"`
	ThisMonth int64 `json:"this_month"`
}

type ResourceTypeCount struct {
	ResourceType string `json:"resource_type"`
	Count        int64  `json:"count"`
}

// AuditStatsResponse is returned by the audit stats endpoint
type AuditStatsResponse struct {
	ActivityStats         ActivityStats       `json:"activity_stats"`
	ResourceTypeBreakdown []ResourceTypeCount `json:"resource_type_breakdown"`
}

type ExportPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AuditExport is the JSON export document
type AuditExport struct {
	ExportDate   time.Time         `json:"export_date"`
	Period       ExportPeriod      `json:"period"`
	TotalRecords int               `json:"total_records"`
	Data         []models.AuditLog `json:"data"`
}
