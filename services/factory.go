package services

import (
	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles every service the HTTP layer depends on. They share one
// database handle, one cache and one audit recorder.
type Services struct {
	Compliance  *ComplianceService
	Environment *EnvironmentService
	CLI         *CLIService
	Dashboard   *DashboardService
	Audit       *AuditService
	Auth        *AuthService
}

// New wires the services around db
func New(db *gorm.DB, store cache.Store, cfg *config.Config, log *zap.Logger) *Services {
	recorder := NewAuditRecorder(log)
	return &Services{
		Compliance:  NewComplianceService(db, recorder, store, log),
		Environment: NewEnvironmentService(db, recorder, store, log),
		CLI:         NewCLIService(db),
		Dashboard:   NewDashboardService(db, store, log),
		Audit:       NewAuditService(db, recorder, store, log),
		Auth:        NewAuthService(db, cfg.Auth, log),
	}
}
