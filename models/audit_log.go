package models

import (
	"time"

	"gorm.io/datatypes"
)

// Resource types recorded in the audit trail
const (
	ResourceComplianceItem = "compliance_item"
	ResourceEnvironment    = "environment"
)

// AuditLog is an append-only record of one state-changing action
type AuditLog struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Action        string         `json:"action" gorm:"not null"`
	ResourceType  string         `json:"resource_type" gorm:"not null"`
	ResourceID    string         `json:"resource_id"`
	EnvironmentID *string        `json:"environment_id" gorm:"type:text;index:idx_audit_logs_environment"`
	UserID        string         `json:"user_id"`
	Details       datatypes.JSON `json:"details" gorm:"type:text;serializer:json"`
	IPAddress     string         `json:"ip_address"`
	UserAgent     string         `json:"user_agent"`
	CreatedAt     time.Time      `json:"created_at" gorm:"index:idx_audit_logs_created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// DashboardMetric is a cached dashboard payload keyed by name
type DashboardMetric struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	MetricName  string         `json:"metric_name" gorm:"uniqueIndex;not null"`
	MetricValue datatypes.JSON `json:"metric_value" gorm:"type:text;not null;serializer:json"`
	LastUpdated time.Time      `json:"last_updated"`
}

func (DashboardMetric) TableName() string {
	return "dashboard_metrics"
}
