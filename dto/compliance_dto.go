package dto

import (
	"time"

	"github.com/admin-concierge/models"
)

// UpdateItemRequest is a partial update of a checklist item. Nil fields were
// not supplied.
type UpdateItemRequest struct {
	IsCompleted       *bool                     `json:"is_completed"`
	Notes             *string                   `json:"notes"`
	CompletedBy       *string                   `json:"completed_by"`
	CompletionDetails *models.CompletionDetails `json:"completion_details"`
}

// HasChanges reports whether the request touches any updatable field.
// completed_by alone is not an update; it only qualifies is_completed.
func (r UpdateItemRequest) HasChanges() bool {
	return r.IsCompleted != nil || r.Notes != nil || r.CompletionDetails != nil
}

// ItemResponse is a checklist item as returned to clients
type ItemResponse struct {
	ID                uint                      `json:"id"`
	CategoryID        uint                      `json:"category_id"`
	EnvironmentID     *string                   `json:"environment_id"`
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Importance        models.Importance         `json:"importance"`
	DocumentationLink string                    `json:"documentation_link"`
	CLICommands       []string                  `json:"cli_commands"`
	IsCompleted       bool                      `json:"is_completed"`
	CompletedAt       *time.Time                `json:"completed_at"`
	CompletedBy       *string                   `json:"completed_by"`
	Notes             *string                   `json:"notes"`
	CompletionDetails *models.CompletionDetails `json:"completion_details"`
	OrderIndex        int                       `json:"order_index"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// NewItemResponse converts a model, never returning a nil command list
func NewItemResponse(item models.ComplianceItem) ItemResponse {
	commands := item.CLICommands
	if commands == nil {
		commands = []string{}
	}
	return ItemResponse{
		ID:                item.ID,
		CategoryID:        item.CategoryID,
		EnvironmentID:     item.EnvironmentID,
		Title:             item.Title,
		Description:       item.Description,
		Importance:        item.Importance,
		DocumentationLink: item.DocumentationLink,
		CLICommands:       commands,
		IsCompleted:       item.IsCompleted,
		CompletedAt:       item.CompletedAt,
		CompletedBy:       item.CompletedBy,
		Notes:             item.Notes,
		CompletionDetails: item.CompletionDetails,
		OrderIndex:        item.OrderIndex,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// CategoryResponse is a category with its rollup and nested items
type CategoryResponse struct {
	ID                   uint           `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Icon                 string         `json:"icon"`
	OrderIndex           int            `json:"order_index"`
	TotalItems           int64          `json:"total_items"`
	CompletedItems       int64          `json:"completed_items"`
	CompletionPercentage *float64       `json:"completion_percentage"`
	Items                []ItemResponse `json:"items"`
}

// CompletionStats is the overall completion rollup
type CompletionStats struct {
	TotalItems           int64    `json:"total_items"`
	CompletedItems       int64    `json:"completed_items"`
	CompletionPercentage *float64 `json:"completion_percentage"`
}

// CriticalStats is the completion rollup of critical items
type CriticalStats struct {
	TotalCritical                int64    `json:"total_critical"`
	CompletedCritical            int64    `json:"completed_critical"`
	CriticalCompletionPercentage *float64 `json:"critical_completion_percentage"`
}

// CategoryActivity counts recent completions in one category
type CategoryActivity struct {
	CategoryID     uint  `json:"category_id"`
	CompletedCount int64 `json:"completed_count"`
}

// CategoryBreakdown is the completion rollup of one category
type CategoryBreakdown struct {
	CategoryName         string   `json:"category_name"`
	Icon                 string   `json:"icon"`
	TotalItems           int64    `json:"total_items"`
	CompletedItems       int64    `json:"completed_items"`
	CompletionPercentage *float64 `json:"completion_percentage"`
}

// SummaryResponse is returned by the compliance summary endpoint
type SummaryResponse struct {
	Overall           CompletionStats     `json:"overall"`
	Critical          CriticalStats       `json:"critical"`
	RecentActivity    []CategoryActivity  `json:"recent_activity"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
}

// DailyCompletions counts completions on one calendar date (YYYY-MM-DD, UTC)
type DailyCompletions struct {
	Date           string `json:"date"`
	CompletedItems int64  `json:"completed_items"`
}

// ImportanceStats is the completion rollup of one importance level
type ImportanceStats struct {
	Importance models.Importance `json:"importance"`
	Total      int64             `json:"total"`
	Completed  int64             `json:"completed"`
	Percentage *float64          `json:"percentage"`
}

// TrendsResponse is returned by the compliance trends endpoint
type TrendsResponse struct {
	CompletionTrends    []DailyCompletions `json:"completion_trends"`
	ImportanceBreakdown []ImportanceStats  `json:"importance_breakdown"`
}
