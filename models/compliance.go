package models

import (
	"time"
)

// Importance ranks how urgent a compliance item is
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// Importances lists importance levels from most to least urgent
var Importances = []Importance{ImportanceCritical, ImportanceHigh, ImportanceMedium, ImportanceLow}

// ComplianceCategory groups related checklist items
type ComplianceCategory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	OrderIndex  int       `json:"order_index" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Items []ComplianceItem `json:"items,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (ComplianceCategory) TableName() string {
	return "compliance_categories"
}

// ComplianceItem is one checklist entry. A nil EnvironmentID makes the item
// global: it applies to every environment.
type ComplianceItem struct {
	ID                uint               `json:"id" gorm:"primaryKey"`
	CategoryID        uint               `json:"category_id" gorm:"not null;index:idx_compliance_items_category"`
	EnvironmentID     *string            `json:"environment_id" gorm:"type:text;index:idx_compliance_items_environment"`
	Title             string             `json:"title" gorm:"not null"`
	Description       string             `json:"description"`
	Importance        Importance         `json:"importance" gorm:"type:text;default:medium;check:importance IN ('critical','high','medium','low')"`
	DocumentationLink string             `json:"documentation_link"`
	CLICommands       []string           `json:"cli_commands" gorm:"column:cli_commands;type:text;serializer:json"`
	IsCompleted       bool               `json:"is_completed" gorm:"default:false;index:idx_compliance_items_completed"`
	CompletedAt       *time.Time         `json:"completed_at"`
	CompletedBy       *string            `json:"completed_by"`
	Notes             *string            `json:"notes"`
	CompletionDetails *CompletionDetails `json:"completion_details" gorm:"type:text;serializer:json"`
	OrderIndex        int                `json:"order_index" gorm:"default:0"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func (ComplianceItem) TableName() string {
	return "compliance_items"
}

// CompletionDetails records how an item was completed
type CompletionDetails struct {
	CompletionMethod  string   `json:"completion_method,omitempty" validate:"max=500"`
	VerificationSteps []string `json:"verification_steps,omitempty" validate:"max=50,dive,max=1000"`
	EvidenceFiles     []string `json:"evidence_files,omitempty" validate:"max=50,dive,max=1000"`
	IssuesEncountered string   `json:"issues_encountered,omitempty" validate:"max=5000"`
	TimeTaken         int      `json:"time_taken,omitempty" validate:"gte=0"` // minutes
	AdditionalNotes   string   `json:"additional_notes,omitempty" validate:"max=5000"`
}
