package repositories

import (
	"context"
	"time"

	"github.com/admin-concierge/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComplianceRepository handles database operations for categories and checklist items
type ComplianceRepository struct {
	db *gorm.DB
}

// NewComplianceRepository creates a new compliance repository instance
func NewComplianceRepository(db *gorm.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *ComplianceRepository) WithTx(tx *gorm.DB) *ComplianceRepository {
	return &ComplianceRepository{db: tx}
}

// Tally is a completed/total pair
type Tally struct {
	Total     int64
	Completed int64
}

// CategoryTally is a Tally for one category
type CategoryTally struct {
	ID         uint
	Name       string
	Icon       string
	OrderIndex int
	Total      int64
	Completed  int64
}

// ImportanceTally is a Tally for one importance level
type ImportanceTally struct {
	Importance models.Importance
	Total      int64
	Completed  int64
}

// CategoryCount is a per-category row count
type CategoryCount struct {
	CategoryID     uint  `json:"category_id"`
	CompletedCount int64 `json:"completed_count"`
}

// ItemDigest is a checklist item joined with its category
type ItemDigest struct {
	ID                uint
	Title             string
	Description       string
	Importance        models.Importance
	DocumentationLink string
	Category          string
	CategoryIcon      string
	CompletedAt       *time.Time
	CompletedBy       *string
	CreatedAt         time.Time
}

const completedSum = "COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0)"

// ListCategories retrieves all categories in display order
func (r *ComplianceRepository) ListCategories(ctx context.Context) ([]models.ComplianceCategory, error) {
	var categories []models.ComplianceCategory
	result := r.db.WithContext(ctx).Order("order_index").Order("id").Find(&categories)
	return categories, result.Error
}

// ListItems retrieves the items visible in an environment, ordered for display
func (r *ComplianceRepository) ListItems(ctx context.Context, environmentID string) ([]models.ComplianceItem, error) {
	var items []models.ComplianceItem
	result := r.db.WithContext(ctx).
		Scopes(inEnvironment("environment_id", environmentID)).
		Order("order_index").
		Order("id").
		Find(&items)
	return items, result.Error
}

// FindItem retrieves a checklist item by its ID
func (r *ComplianceRepository) FindItem(ctx context.Context, id uint) (models.ComplianceItem, error) {
	var item models.ComplianceItem
	result := r.db.WithContext(ctx).First(&item, id)
	return item, result.Error
}

// SaveItem writes every column of item
func (r *ComplianceRepository) SaveItem(ctx context.Context, item *models.ComplianceItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// Tally counts items in an environment. A non-empty importance narrows the count.
func (r *ComplianceRepository) Tally(ctx context.Context, environmentID string, importance models.Importance) (Tally, error) {
	var tally Tally
	db := r.db.WithContext(ctx).
		Model(&models.ComplianceItem{}).
		Select("COUNT(*) AS total, " + completedSum + " AS completed").
		Scopes(inEnvironment("environment_id", environmentID))
	if importance != "" {
		db = db.Where("importance = ?", importance)
	}
	err := db.Scan(&tally).Error
	return tally, err
}

// CategoryTallies counts items per category. Categories without items are
// included with zero totals.
func (r *ComplianceRepository) CategoryTallies(ctx context.Context, environmentID string) ([]CategoryTally, error) {
	join := "LEFT JOIN compliance_items i ON i.category_id = c.id"
	args := []interface{}{}
	if environmentID != "" {
		join += " AND (i.environment_id = ? OR i.environment_id IS NULL)"
		args = append(args, environmentID)
	}

	var tallies []CategoryTally
	err := r.db.WithContext(ctx).
		Table("compliance_categories AS c").
		Select("c.id, c.name, c.icon, c.order_index, COUNT(i.id) AS total, " +
			"COALESCE(SUM(CASE WHEN i.is_completed THEN 1 ELSE 0 END), 0) AS completed").
		Joins(join, args...).
		Group("c.id, c.name, c.icon, c.order_index").
		Order("c.order_index").
		Scan(&tallies).Error
	return tallies, err
}

// ImportanceTallies counts items per importance level
func (r *ComplianceRepository) ImportanceTallies(ctx context.Context, environmentID string) ([]ImportanceTally, error) {
	var tallies []ImportanceTally
	err := r.db.WithContext(ctx).
		Model(&models.ComplianceItem{}).
		Select("importance, COUNT(*) AS total, " + completedSum + " AS completed").
		Scopes(inEnvironment("environment_id", environmentID)).
		Group("importance").
		Scan(&tallies).Error
	return tallies, err
}

// CompletedByCategorySince counts completions after since, per category
func (r *ComplianceRepository) CompletedByCategorySince(ctx context.Context, environmentID string, since time.Time) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.ComplianceItem{}).
		Select("category_id, COUNT(*) AS completed_count").
		Where("is_completed = ? AND completed_at > ?", true, since).
		Scopes(inEnvironment("environment_id", environmentID)).
		Group("category_id").
		Order("category_id").
		Scan(&counts).Error
	return counts, err
}

// CompletionTimes returns the completion timestamps after since
func (r *ComplianceRepository) CompletionTimes(ctx context.Context, environmentID string, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.ComplianceItem{}).
		Where("is_completed = ? AND completed_at > ?", true, since).
		Scopes(inEnvironment("environment_id", environmentID)).
		Order("completed_at").
		Pluck("completed_at", &times).Error
	return times, err
}

// PendingCritical returns the oldest incomplete critical items. A non-zero
// createdBefore only keeps items created before it; limit <= 0 means no limit.
func (r *ComplianceRepository) PendingCritical(ctx context.Context, environmentID string, createdBefore time.Time, limit int) ([]ItemDigest, error) {
	db := r.digestQuery(ctx).
		Where("i.importance = ? AND i.is_completed = ?", models.ImportanceCritical, false).
		Scopes(inEnvironment("i.environment_id", environmentID))
	if !createdBefore.IsZero() {
		db = db.Where("i.created_at < ?", createdBefore)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}

	var items []ItemDigest
	err := db.Order("i.created_at").Order("i.id").Scan(&items).Error
	return items, err
}

// RecentCompletions returns items completed after since, newest first
func (r *ComplianceRepository) RecentCompletions(ctx context.Context, since time.Time, limit int) ([]ItemDigest, error) {
	var items []ItemDigest
	err := r.digestQuery(ctx).
		Where("i.is_completed = ? AND i.completed_at > ?", true, since).
		Order("i.completed_at DESC").
		Limit(limit).
		Scan(&items).Error
	return items, err
}

func (r *ComplianceRepository) digestQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("compliance_items AS i").
		Select("i.id, i.title, i.description, i.importance, i.documentation_link, " +
			"c.name AS category, c.icon AS category_icon, i.completed_at, i.completed_by, i.created_at").
		Joins("JOIN compliance_categories c ON c.id = i.category_id")
}
