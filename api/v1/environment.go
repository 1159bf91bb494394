package v1

import (
	"net/http"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
)

// EnvironmentController handles environment-related API endpoints
type EnvironmentController struct {
	environmentService *services.EnvironmentService
}

// NewEnvironmentController creates a new environment controller
func NewEnvironmentController(environmentService *services.EnvironmentService) *EnvironmentController {
	return &EnvironmentController{environmentService: environmentService}
}

// RegisterRoutes registers environment routes. Mutations pass through guards.
func (ec *EnvironmentController) RegisterRoutes(router *gin.RouterGroup, guards ...gin.HandlerFunc) {
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), handler)
	}

	environments := router.Group("/environments")
	{
		environments.GET("", ec.ListEnvironments)
		environments.GET("/:id", ec.GetEnvironment)
		environments.POST("", guarded(ec.CreateEnvironment)...)
		environments.PUT("/:id", guarded(ec.UpdateEnvironment)...)
		environments.DELETE("/:id", guarded(ec.DeleteEnvironment)...)
	}
}

// ListEnvironments retrieves all environments
func (ec *EnvironmentController) ListEnvironments(c *gin.Context) {
	environments, err := ec.environmentService.ListEnvironments(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, environments)
}

// GetEnvironment retrieves a specific environment
func (ec *EnvironmentController) GetEnvironment(c *gin.Context) {
	environment, err := ec.environmentService.GetEnvironment(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, environment)
}

// CreateEnvironment registers a new environment
func (ec *EnvironmentController) CreateEnvironment(c *gin.Context) {
	var req dto.CreateEnvironmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput(err))
		return
	}

	environment, err := ec.environmentService.CreateEnvironment(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondCreated(c, environment)
}

// UpdateEnvironment merges the supplied fields into an environment
func (ec *EnvironmentController) UpdateEnvironment(c *gin.Context) {
	var req dto.UpdateEnvironmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput(err))
		return
	}

	environment, err := ec.environmentService.UpdateEnvironment(c.Request.Context(), c.Param("id"), req, requestMeta(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, environment)
}

// DeleteEnvironment removes an environment
func (ec *EnvironmentController) DeleteEnvironment(c *gin.Context) {
	if err := ec.environmentService.DeleteEnvironment(c.Request.Context(), c.Param("id"), requestMeta(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Environment deleted successfully",
	})
}
