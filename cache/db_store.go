package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/admin-concierge/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore keeps entries in the dashboard_metrics table
type DBStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewDBStore creates a table-backed store whose entries live for ttl
func NewDBStore(db *gorm.DB, ttl time.Duration) *DBStore {
	return &DBStore{
		db:  db,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *DBStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var metric models.DashboardMetric
	err := s.db.WithContext(ctx).
		Where("metric_name = ? AND last_updated > ?", key, s.now().Add(-s.ttl)).
		First(&metric).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(metric.MetricValue, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DBStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	metric := models.DashboardMetric{
		MetricName:  key,
		MetricValue: datatypes.JSON(raw),
		LastUpdated: s.now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metric_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"metric_value", "last_updated"}),
	}).Create(&metric).Error
}

func (s *DBStore) Invalidate(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.DashboardMetric{}).Error
}
