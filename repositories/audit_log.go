package repositories

import (
	"context"
	"time"

	"github.com/admin-concierge/models"
	"gorm.io/gorm"
)

// AuditLogRepository handles database operations for the audit trail. It
// only ever inserts and reads.
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository instance
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *AuditLogRepository) WithTx(tx *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: tx}
}

// AuditFilter narrows audit log queries. Zero values are ignored.
type AuditFilter struct {
	Action       string
	ResourceType string
	Start        time.Time
	End          time.Time
}

func (f AuditFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Action != "" {
		db = db.Where("action = ?", f.Action)
	}
	if f.ResourceType != "" {
		db = db.Where("resource_type = ?", f.ResourceType)
	}
	if !f.Start.IsZero() {
		db = db.Where("created_at >= ?", f.Start)
	}
	if !f.End.IsZero() {
		db = db.Where("created_at <= ?", f.End)
	}
	return db
}

// KeyCount is a grouped row count
type KeyCount struct {
	Name  string
	Count int64
}

// Create appends an entry
func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindWithPagination retrieves matching entries newest first along with the total match count
func (r *AuditLogRepository) FindWithPagination(ctx context.Context, filter AuditFilter, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{}).Scopes(filter.scope)

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, totalCount, nil
}

// FindAll retrieves every matching entry newest first
func (r *AuditLogRepository) FindAll(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error
	return logs, err
}

// Recent returns the newest entries
func (r *AuditLogRepository) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// CountSince counts entries created after since
func (r *AuditLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AuditLog{}).Where("created_at > ?", since).Count(&count).Error
	return count, err
}

// CountByActionSince groups entries after since by action, most frequent first
func (r *AuditLogRepository) CountByActionSince(ctx context.Context, since time.Time) ([]KeyCount, error) {
	return r.countBy(ctx, "action", since, 0)
}

// CountByResourceTypeSince groups entries after since by resource type, most frequent first
func (r *AuditLogRepository) CountByResourceTypeSince(ctx context.Context, since time.Time) ([]KeyCount, error) {
	return r.countBy(ctx, "resource_type", since, 0)
}

// TopUsersSince returns the most active users after since
func (r *AuditLogRepository) TopUsersSince(ctx context.Context, since time.Time, limit int) ([]KeyCount, error) {
	return r.countBy(ctx, "user_id", since, limit)
}

// CountUsersSince counts distinct actors after since
func (r *AuditLogRepository) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("created_at > ? AND user_id IS NOT NULL AND user_id <> ''", since).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// CreatedTimes returns the creation timestamps after since, oldest first
func (r *AuditLogRepository) CreatedTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("created_at > ?", since).
		Order("created_at").
		Pluck("created_at", &times).Error
	return times, err
}

func (r *AuditLogRepository) countBy(ctx context.Context, column string, since time.Time, limit int) ([]KeyCount, error) {
	db := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Select(column+" AS name, COUNT(*) AS count").
		Where("created_at > ?", since).
		Where(column + " IS NOT NULL AND " + column + " <> ''").
		Group(column).
		Order("count DESC").
		Order(column)
	if limit > 0 {
		db = db.Limit(limit)
	}

	var counts []KeyCount
	err := db.Scan(&counts).Error
	return counts, err
}
