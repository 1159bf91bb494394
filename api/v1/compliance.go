package v1

import (
	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
)

// ComplianceController handles the compliance checklist endpoints
type ComplianceController struct {
	complianceService *services.ComplianceService
}

// NewComplianceController creates a new compliance controller
func NewComplianceController(complianceService *services.ComplianceService) *ComplianceController {
	return &ComplianceController{complianceService: complianceService}
}

// RegisterRoutes registers compliance routes
func (cc *ComplianceController) RegisterRoutes(router *gin.RouterGroup) {
	compliance := router.Group("/compliance")
	{
		compliance.GET("/categories", cc.ListCategories)
		compliance.GET("/summary", cc.GetSummary)
		compliance.GET("/trends", cc.GetTrends)
		compliance.PATCH("/items/:id", cc.UpdateItem)
	}
}

// ListCategories returns every category with its items
func (cc *ComplianceController) ListCategories(c *gin.Context) {
	categories, err := cc.complianceService.ListCategories(c.Request.Context(), c.Query("environment_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, categories)
}

// GetSummary returns the completion rollups
func (cc *ComplianceController) GetSummary(c *gin.Context) {
	summary, err := cc.complianceService.Summary(c.Request.Context(), c.Query("environment_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, summary)
}

// GetTrends returns the completion trend and importance breakdown
func (cc *ComplianceController) GetTrends(c *gin.Context) {
	trends, err := cc.complianceService.Trends(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, trends)
}

// UpdateItem applies a partial update to one checklist item
func (cc *ComplianceController) UpdateItem(c *gin.Context) {
	id, err := paramID(c, "id", "compliance item")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput(err))
		return
	}

	item, err := cc.complianceService.UpdateItem(c.Request.Context(), id, req, requestMeta(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, item)
}
