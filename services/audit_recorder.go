package services

import (
	"context"
	"encoding/json"

	"github.com/admin-concierge/metrics"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/repositories"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestMeta identifies who sent a request and from where
type RequestMeta struct {
	UserID    string
	IPAddress string
	UserAgent string
}

// actorOr returns the authenticated user, or fallback for anonymous requests
func (m RequestMeta) actorOr(fallback string) string {
	if m.UserID != "" {
		return m.UserID
	}
	return fallback
}

// AuditEntry is one action to record
type AuditEntry struct {
	Action        string
	ResourceType  string
	ResourceID    string
	EnvironmentID *string
	UserID        string
	IPAddress     string
	UserAgent     string
	// Details is encoded as JSON. Nil stores NULL.
	Details interface{}
}

// AuditRecorder appends audit entries inside the caller's transaction
type AuditRecorder struct {
	log *zap.Logger
}

// NewAuditRecorder creates a new audit recorder
func NewAuditRecorder(log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{log: log}
}

// Record inserts entry using tx, so it commits or rolls back with the
// mutation it describes. Call Committed once tx has committed.
func (r *AuditRecorder) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) (models.AuditLog, error) {
	var details datatypes.JSON
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return models.AuditLog{}, err
		}
		if string(raw) != "null" {
			details = datatypes.JSON(raw)
		}
	}

	log := models.AuditLog{
		Action:        entry.Action,
		ResourceType:  entry.ResourceType,
		ResourceID:    entry.ResourceID,
		EnvironmentID: entry.EnvironmentID,
		UserID:        entry.UserID,
		Details:       details,
		IPAddress:     entry.IPAddress,
		UserAgent:     entry.UserAgent,
	}

	if err := repositories.NewAuditLogRepository(tx).Create(ctx, &log); err != nil {
		return models.AuditLog{}, err
	}

	r.log.Debug("Audit entry recorded",
		zap.Uint("id", log.ID),
		zap.String("action", log.Action),
		zap.String("resource_type", log.ResourceType),
		zap.String("resource_id", log.ResourceID),
		zap.String("user_id", log.UserID),
	)
	return log, nil
}

// Committed counts entries whose transaction has committed
func (r *AuditRecorder) Committed(entries ...models.AuditLog) {
	for _, e := range entries {
		metrics.AuditEntriesTotal.WithLabelValues(e.Action, e.ResourceType).Inc()
	}
}
