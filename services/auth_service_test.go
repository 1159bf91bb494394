package services

import (
	"context"
	"testing"
	"time"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/config"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testAPIKey = "concierge-test-key"

func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	hash, err := HashAPIKey(testAPIKey)
	require.NoError(t, err)

	db := testutil.NewTestDB(t)
	return NewAuthService(db, config.AuthConfig{
		APIKeyHash: hash,
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
	}, zap.NewNop()), db
}

func TestVerifyAPIKey(t *testing.T) {
	auth, _ := newTestAuthService(t)

	assert.True(t, auth.Enabled())
	assert.True(t, auth.VerifyAPIKey(testAPIKey))
	assert.False(t, auth.VerifyAPIKey("wrong-key"))
	assert.False(t, auth.VerifyAPIKey(""))
}

func TestIssueTokenRejectsInvalidKey(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.IssueToken(context.Background(), dto.TokenRequest{APIKey: "wrong-key", UserID: "riley"})
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestIssueTokenWhenDisabled(t *testing.T) {
	auth := NewAuthService(testutil.NewTestDB(t), config.AuthConfig{TokenTTL: time.Hour}, zap.NewNop())

	assert.False(t, auth.Enabled())
	_, err := auth.IssueToken(context.Background(), dto.TokenRequest{APIKey: testAPIKey, UserID: "riley"})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestIssueAndAuthenticate(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	issued, err := auth.IssueToken(ctx, dto.TokenRequest{APIKey: testAPIKey, UserID: "riley"})
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleUser), issued.Role)
	assert.NotEmpty(t, issued.Token)

	claims, err := auth.Authenticate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "riley", claims.UserID)
	assert.Equal(t, "riley", claims.Subject)

	var session models.UserSession
	require.NoError(t, db.First(&session, "id = ?", claims.ID).Error)
	assert.Equal(t, models.RoleUser, session.Role)

	admin, err := auth.IssueToken(ctx, dto.TokenRequest{APIKey: testAPIKey, UserID: "sam", Role: "admin"})
	require.NoError(t, err)
	adminClaims, err := auth.Authenticate(ctx, admin.Token)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleAdmin), adminClaims.Role)
}

func TestAuthenticateRejectsRevokedSession(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	issued, err := auth.IssueToken(ctx, dto.TokenRequest{APIKey: testAPIKey, UserID: "riley"})
	require.NoError(t, err)
	claims, err := auth.Authenticate(ctx, issued.Token)
	require.NoError(t, err)

	require.NoError(t, auth.Revoke(ctx, claims.ID))

	_, err = auth.Authenticate(ctx, issued.Token)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	auth, _ := newTestAuthService(t)

	issued, err := auth.IssueToken(context.Background(), dto.TokenRequest{APIKey: testAPIKey, UserID: "riley"})
	require.NoError(t, err)

	_, err = auth.Authenticate(context.Background(), issued.Token+"x")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestTokenExpiry(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()
	issuedAt := time.Now().UTC()
	auth.now = func() time.Time { return issuedAt }

	issued, err := auth.IssueToken(ctx, dto.TokenRequest{APIKey: testAPIKey, UserID: "riley"})
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), issued.ExpiresAt)

	auth.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = auth.Authenticate(ctx, issued.Token)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	purged, err := auth.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}
