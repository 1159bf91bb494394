package repositories

import (
	"context"
	"time"

	"github.com/admin-concierge/models"
	"gorm.io/gorm"
)

// SessionRepository stores issued access token sessions
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository instance
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create records a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindActive retrieves a session that has not expired at now
func (r *SessionRepository) FindActive(ctx context.Context, id string, now time.Time) (models.UserSession, error) {
	var session models.UserSession
	result := r.db.WithContext(ctx).First(&session, "id = ? AND expires_at > ?", id, now)
	return session, result.Error
}

// Delete revokes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.UserSession{}, "id = ?", id).Error
}

// DeleteExpired removes sessions that expired before now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.UserSession{})
	return result.RowsAffected, result.Error
}
