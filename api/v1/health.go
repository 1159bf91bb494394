package v1

import (
	"net/http"
	"time"

	"github.com/admin-concierge/database"
	"github.com/admin-concierge/dto"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController serves the liveness probe
type HealthController struct {
	db          *gorm.DB
	environment string
	startedAt   time.Time
}

// NewHealthController creates a new health controller
func NewHealthController(db *gorm.DB, environment string) *HealthController {
	return &HealthController{db: db, environment: environment, startedAt: time.Now()}
}

// HealthCheck handles the health check endpoint
func (h *HealthController) HealthCheck(c *gin.Context) {
	response := dto.HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.startedAt).Seconds(),
		Environment: h.environment,
		Database:    "connected",
	}

	status := http.StatusOK
	if err := database.Ping(h.db); err != nil {
		response.Status = "unhealthy"
		response.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}
