package v1

import (
	"net/http"
	"strconv"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/middleware"
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   data,
	})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   data,
	})
}

// requestMeta identifies the caller for the audit trail
func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		UserID:    middleware.CurrentUserID(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// paramID parses a numeric path parameter
func paramID(c *gin.Context, name, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid " + resource + " ID")
	}
	return uint(id), nil
}
