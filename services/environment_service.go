package services

import (
	"context"
	"errors"
	"strings"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Audit actions recorded for environment changes
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// EnvironmentService handles business logic for environments
type EnvironmentService struct {
	db              *gorm.DB
	environmentRepo *repositories.EnvironmentRepository
	auditRecorder   *AuditRecorder
	cache           cache.Store
	log             *zap.Logger
}

// NewEnvironmentService creates a new environment service instance
func NewEnvironmentService(db *gorm.DB, recorder *AuditRecorder, store cache.Store, log *zap.Logger) *EnvironmentService {
	return &EnvironmentService{
		db:              db,
		environmentRepo: repositories.NewEnvironmentRepository(db),
		auditRecorder:   recorder,
		cache:           store,
		log:             log,
	}
}

// ListEnvironments retrieves all environments, production first
func (s *EnvironmentService) ListEnvironments(ctx context.Context) ([]models.Environment, error) {
	environments, err := s.environmentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if environments == nil {
		environments = []models.Environment{}
	}
	return environments, nil
}

// GetEnvironment retrieves a specific environment
func (s *EnvironmentService) GetEnvironment(ctx context.Context, id string) (models.Environment, error) {
	env, err := s.environmentRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return env, apperrors.NotFound("Environment")
	}
	return env, err
}

// CreateEnvironment registers a new environment
func (s *EnvironmentService) CreateEnvironment(ctx context.Context, req dto.CreateEnvironmentRequest, meta RequestMeta) (models.Environment, error) {
	if req.ID == "" || req.Name == "" {
		return models.Environment{}, apperrors.Validation("Environment ID and name are required")
	}

	envType := models.EnvironmentSandbox
	if req.Type != "" {
		envType = models.EnvironmentType(req.Type)
		if !envType.Valid() {
			return models.Environment{}, invalidEnvironmentType()
		}
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = meta.actorOr(DefaultCompleter)
	}

	env := models.Environment{
		ID:          req.ID,
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Type:        envType,
		Region:      req.Region,
		CreatedBy:   createdBy,
	}

	var entry models.AuditLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.environmentRepo.WithTx(tx)

		exists, err := repo.Exists(ctx, env.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("Environment already exists")
		}

		if err := repo.Create(ctx, &env); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("Environment already exists").WithCause(err)
			}
			return err
		}

		entry, err = s.auditRecorder.Record(ctx, tx, AuditEntry{
			Action:        ActionCreate,
			ResourceType:  models.ResourceEnvironment,
			ResourceID:    env.ID,
			EnvironmentID: &env.ID,
			UserID:        meta.actorOr(createdBy),
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			Details: map[string]interface{}{
				"name":         env.Name,
				"display_name": env.DisplayName,
				"type":         env.Type,
				"region":       env.Region,
			},
		})
		return err
	})
	if err != nil {
		return models.Environment{}, err
	}

	s.auditRecorder.Committed(entry)
	s.log.Info("Environment created", zap.String("environment_id", env.ID), zap.String("type", string(env.Type)))
	s.invalidateCache(ctx)
	return env, nil
}

// UpdateEnvironment merges the supplied fields into an existing environment
func (s *EnvironmentService) UpdateEnvironment(ctx context.Context, id string, req dto.UpdateEnvironmentRequest, meta RequestMeta) (models.Environment, error) {
	if req.Type != nil && *req.Type != "" && !models.EnvironmentType(*req.Type).Valid() {
		return models.Environment{}, invalidEnvironmentType()
	}

	var env models.Environment
	var entry models.AuditLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.environmentRepo.WithTx(tx)

		var err error
		env, err = repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Environment")
		}
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if req.Name != nil && *req.Name != "" {
			env.Name = *req.Name
			changes["name"] = *req.Name
		}
		if req.DisplayName != nil && *req.DisplayName != "" {
			env.DisplayName = *req.DisplayName
			changes["display_name"] = *req.DisplayName
		}
		if req.Type != nil && *req.Type != "" {
			env.Type = models.EnvironmentType(*req.Type)
			changes["type"] = *req.Type
		}
		if req.Region != nil && *req.Region != "" {
			env.Region = *req.Region
			changes["region"] = *req.Region
		}

		if err := repo.Update(ctx, &env); err != nil {
			return err
		}

		entry, err = s.auditRecorder.Record(ctx, tx, AuditEntry{
			Action:        ActionUpdate,
			ResourceType:  models.ResourceEnvironment,
			ResourceID:    env.ID,
			EnvironmentID: &env.ID,
			UserID:        meta.actorOr(DefaultCompleter),
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			Details:       changes,
		})
		return err
	})
	if err != nil {
		return models.Environment{}, err
	}

	s.auditRecorder.Committed(entry)
	s.log.Info("Environment updated", zap.String("environment_id", env.ID))
	s.invalidateCache(ctx)
	return env, nil
}

// DeleteEnvironment removes an environment that no compliance item references
func (s *EnvironmentService) DeleteEnvironment(ctx context.Context, id string, meta RequestMeta) error {
	var entry models.AuditLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.environmentRepo.WithTx(tx)

		env, err := repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Environment")
		}
		if err != nil {
			return err
		}

		count, err := repo.CountItemsInEnvironment(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.HasDependents("Cannot delete environment with associated compliance items")
		}

		if err := repo.Delete(ctx, id); err != nil {
			return err
		}

		entry, err = s.auditRecorder.Record(ctx, tx, AuditEntry{
			Action:       ActionDelete,
			ResourceType: models.ResourceEnvironment,
			ResourceID:   id,
			UserID:       meta.actorOr(DefaultCompleter),
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
			Details:      map[string]interface{}{"name": env.Name},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.auditRecorder.Committed(entry)
	s.log.Info("Environment deleted", zap.String("environment_id", id))
	s.invalidateCache(ctx)
	return nil
}

func (s *EnvironmentService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}

func invalidEnvironmentType() *apperrors.Error {
	names := make([]string, len(models.EnvironmentTypes))
	for i, t := range models.EnvironmentTypes {
		names[i] = string(t)
	}
	return apperrors.Validation("Invalid environment type, expected one of: " + strings.Join(names, ", "))
}
