package services

import (
	"context"
	"errors"
	"time"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/config"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues and verifies access tokens. Every token is backed by a
// user_sessions row so it can be revoked before it expires.
type AuthService struct {
	cfg         config.AuthConfig
	sessionRepo *repositories.SessionRepository
	log         *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new auth service instance
func NewAuthService(db *gorm.DB, cfg config.AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{
		cfg:         cfg,
		sessionRepo: repositories.NewSessionRepository(db),
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether requests must authenticate
func (s *AuthService) Enabled() bool {
	return s.cfg.Enabled()
}

// HashAPIKey returns the bcrypt hash to place in auth.api_key_hash
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAPIKey checks key against the configured hash
func (s *AuthService) VerifyAPIKey(key string) bool {
	if s.cfg.APIKeyHash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.cfg.APIKeyHash), []byte(key)) == nil
}

// IssueToken exchanges a valid API key for a signed access token
func (s *AuthService) IssueToken(ctx context.Context, req dto.TokenRequest) (dto.TokenResponse, error) {
	if !s.Enabled() {
		return dto.TokenResponse{}, apperrors.Forbidden("Authentication is not configured")
	}
	if !s.VerifyAPIKey(req.APIKey) {
		return dto.TokenResponse{}, apperrors.Unauthorized("Invalid API key")
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.GenerateToken(sessionID, req.UserID, string(role))
	if err != nil {
		return dto.TokenResponse{}, err
	}

	session := models.UserSession{
		ID:        sessionID,
		UserID:    req.UserID,
		Role:      role,
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.Create(ctx, &session); err != nil {
		return dto.TokenResponse{}, err
	}

	s.log.Info("Access token issued", zap.String("user_id", req.UserID), zap.String("role", string(role)))

	return dto.TokenResponse{
		Token:     token,
		UserID:    req.UserID,
		Role:      string(role),
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateToken signs a JWT for a user
func (s *AuthService) GenerateToken(sessionID, userID, role string) (string, time.Time, error) {
	if s.cfg.JWTSecret == "" {
		return "", time.Time{}, errors.New("jwt secret not configured")
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	claims := dto.TokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims if valid
func (s *AuthService) ValidateToken(tokenString string) (*dto.TokenClaims, error) {
	if s.cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// Authenticate validates tokenString and checks its session is still active
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*dto.TokenClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token").WithCause(err)
	}

	if _, err := s.sessionRepo.FindActive(ctx, claims.ID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("Session expired or revoked")
		}
		return nil, err
	}

	return claims, nil
}

// Revoke ends the session behind a token
func (s *AuthService) Revoke(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info("Session revoked", zap.String("session_id", sessionID))
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}
