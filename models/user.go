package models

import (
	"time"
)

// Role represents user role types
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserSession is issued with every access token so tokens can be revoked
type UserSession struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"` // token id (jti)
	UserID    string    `json:"user_id" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:text;default:user"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index:idx_user_sessions_expires"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
