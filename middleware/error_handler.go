package middleware

import (
	"net/http"

	"github.com/admin-concierge/apperrors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericErrorMessage = "Something went wrong!"

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindDependents:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders the last error a handler attached with c.Error. It
// must run before the handlers whose errors it formats.
func ErrorHandler(log *zap.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, log, development, c.Errors.Last().Err)
	}
}

func writeError(c *gin.Context, log *zap.Logger, development bool, err error) {
	appErr := apperrors.From(err)
	status := StatusFor(appErr.Kind)

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.String("request_id", c.GetString(RequestIDKey)),
		zap.Error(err),
	}

	body := gin.H{}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", fields...)
		body["status"] = "error"
		if development {
			body["message"] = appErr.Message
			if appErr.Cause != nil {
				body["error"] = appErr.Cause.Error()
			}
		} else {
			body["message"] = genericErrorMessage
		}
	} else {
		log.Warn("Request rejected", fields...)
		body["status"] = "fail"
		body["message"] = appErr.Message
	}

	c.AbortWithStatusJSON(status, body)
}
