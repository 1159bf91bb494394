package middleware

import (
	"fmt"
	"io"

	"github.com/admin-concierge/apperrors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a panic into a 500 response in the standard error envelope
func Recovery(log *zap.Logger, development bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		err := apperrors.Internal("Unexpected error", fmt.Errorf("panic: %v", recovered))
		writeError(c, log, development, err)
	})
}
