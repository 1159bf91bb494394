package v1

import (
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
)

// DashboardController serves the dashboard views
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// RegisterRoutes registers dashboard routes
func (dc *DashboardController) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/overview", dc.GetOverview)
		dashboard.GET("/alerts", dc.GetAlerts)
		dashboard.GET("/analytics", dc.GetAnalytics)
		dashboard.GET("/recommendations", dc.GetRecommendations)
	}
}

func (dc *DashboardController) GetOverview(c *gin.Context) {
	overview, err := dc.dashboardService.Overview(c.Request.Context(), c.Query("environment_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, overview)
}

func (dc *DashboardController) GetAlerts(c *gin.Context) {
	alerts, err := dc.dashboardService.Alerts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, alerts)
}

func (dc *DashboardController) GetAnalytics(c *gin.Context) {
	analytics, err := dc.dashboardService.Analytics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, analytics)
}

func (dc *DashboardController) GetRecommendations(c *gin.Context) {
	recommendations, err := dc.dashboardService.Recommendations(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, recommendations)
}
