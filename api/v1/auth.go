package v1

import (
	"net/http"
	"time"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/middleware"
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
)

// AuthController issues and revokes access tokens
type AuthController struct {
	authService  *services.AuthService
	secureCookie bool
}

// NewAuthController creates a new auth controller. Cookies are marked
// secure unless secureCookie is false.
func NewAuthController(authService *services.AuthService, secureCookie bool) *AuthController {
	return &AuthController{authService: authService, secureCookie: secureCookie}
}

// IssueToken exchanges an API key for an access token
func (ac *AuthController) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput(err))
		return
	}

	token, err := ac.authService.IssueToken(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.SetCookie(
		middleware.AccessTokenCookie,
		token.Token,
		int(time.Until(token.ExpiresAt).Seconds()),
		"/",
		"",
		ac.secureCookie,
		true,
	)

	respondOK(c, token)
}

// Logout revokes the caller's session and clears the cookie
func (ac *AuthController) Logout(c *gin.Context) {
	if sessionID := c.GetString(middleware.SessionIDKey); sessionID != "" {
		if err := ac.authService.Revoke(c.Request.Context(), sessionID); err != nil {
			_ = c.Error(err)
			return
		}
	}

	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", ac.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}
