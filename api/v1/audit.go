package v1

import (
	"net/http"
	"strconv"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
)

// AuditController serves the audit trail
type AuditController struct {
	auditService *services.AuditService
}

// NewAuditController creates a new audit controller
func NewAuditController(auditService *services.AuditService) *AuditController {
	return &AuditController{auditService: auditService}
}

// RegisterRoutes registers audit routes
func (ac *AuditController) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/audit")
	{
		audit.GET("/logs", ac.ListLogs)
		audit.POST("/logs", ac.CreateLog)
		audit.GET("/summary", ac.GetSummary)
		audit.GET("/stats", ac.GetStats)
		audit.GET("/export", ac.Export)
	}
}

// ListLogs returns one page of audit entries
func (ac *AuditController) ListLogs(c *gin.Context) {
	var query dto.AuditListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(apperrors.InvalidInput(err))
		return
	}

	logs, err := ac.auditService.ListAuditLogs(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, logs)
}

// CreateLog appends an entry supplied by the client
func (ac *AuditController) CreateLog(c *gin.Context) {
	var req dto.CreateAuditLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput(err))
		return
	}

	entry, err := ac.auditService.CreateAuditLog(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondCreated(c, entry)
}

// GetSummary aggregates recent audit activity
func (ac *AuditController) GetSummary(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(apperrors.Validation("days must be a whole number"))
			return
		}
		days = parsed
	}

	summary, err := ac.auditService.AuditSummary(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, summary)
}

// GetStats returns today, week and month activity counts
func (ac *AuditController) GetStats(c *gin.Context) {
	stats, err := ac.auditService.AuditStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, stats)
}

// Export downloads the audit trail as a JSON or CSV attachment
func (ac *AuditController) Export(c *gin.Context) {
	var query dto.AuditExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(apperrors.InvalidInput(err))
		return
	}

	file, err := ac.auditService.ExportAuditLogs(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
