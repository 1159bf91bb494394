package v1

import (
	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/config"
	"github.com/admin-concierge/middleware"
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the shared handles the HTTP layer is built from
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Services *services.Services
	Log      *zap.Logger
}

// NewEngine builds the gin engine with the ambient middleware and every route
func NewEngine(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Log, cfg.IsDevelopment()),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(),
		middleware.ErrorHandler(deps.Log, cfg.IsDevelopment()),
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.BodyLimit(cfg.Server.BodyLimit),
	)

	health := NewHealthController(deps.DB, cfg.Environment)
	router.GET("/health", health.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit))
	RegisterRoutes(api, deps)

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("Route " + c.Request.URL.Path))
	})

	return router
}

// RegisterRoutes registers all API routes on router
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies) {
	svc := deps.Services

	authController := NewAuthController(svc.Auth, !deps.Config.IsDevelopment())
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/token", authController.IssueToken)
		authGroup.POST("/logout", middleware.Auth(svc.Auth), authController.Logout)
	}

	protected := router.Group("")
	protected.Use(middleware.Auth(svc.Auth))

	NewComplianceController(svc.Compliance).RegisterRoutes(protected)
	NewCLIController(svc.CLI).RegisterRoutes(protected)
	NewDashboardController(svc.Dashboard).RegisterRoutes(protected)
	NewAuditController(svc.Audit).RegisterRoutes(protected)
	NewEnvironmentController(svc.Environment).RegisterRoutes(protected, middleware.RequireAdmin(svc.Auth))
}
