package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents our custom JWT claims
type TokenClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenRequest exchanges an API key for an access token
type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
	UserID string `json:"user_id" binding:"required,max=100"`
	Role   string `json:"role" binding:"omitempty,oneof=user admin"`
}

// TokenResponse represents the response after authentication
type TokenResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthResponse is the liveness probe payload
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
	Database    string    `json:"database,omitempty"`
}
