package repositories

import (
	"context"

	"github.com/admin-concierge/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnvironmentRepository handles database operations for environments
type EnvironmentRepository struct {
	db *gorm.DB
}

// NewEnvironmentRepository creates a new environment repository instance
func NewEnvironmentRepository(db *gorm.DB) *EnvironmentRepository {
	return &EnvironmentRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *EnvironmentRepository) WithTx(tx *gorm.DB) *EnvironmentRepository {
	return &EnvironmentRepository{db: tx}
}

const environmentTypeRank = `CASE type
	WHEN 'Production' THEN 1
	WHEN 'Default' THEN 2
	WHEN 'Sandbox' THEN 3
	WHEN 'Trial' THEN 4
	WHEN 'PoC' THEN 5
	WHEN 'Developer' THEN 6
	ELSE 7
END`

// FindAll retrieves all environments, production first
func (r *EnvironmentRepository) FindAll(ctx context.Context) ([]models.Environment, error) {
	var environments []models.Environment
	result := r.db.WithContext(ctx).
		Order(environmentTypeRank).
		Order("name").
		Find(&environments)
	return environments, result.Error
}

// FindByID retrieves an environment by its ID
func (r *EnvironmentRepository) FindByID(ctx context.Context, id string) (models.Environment, error) {
	var environment models.Environment
	result := r.db.WithContext(ctx).First(&environment, "id = ?", id)
	return environment, result.Error
}

// Exists checks if an environment with the given ID exists
func (r *EnvironmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Environment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Count returns the number of environments
func (r *EnvironmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Environment{}).Count(&count).Error
	return count, err
}

// Create inserts a new environment into the database
func (r *EnvironmentRepository) Create(ctx context.Context, environment *models.Environment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(environment).Error
}

// Update modifies an existing environment
func (r *EnvironmentRepository) Update(ctx context.Context, environment *models.Environment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(environment).Error
}

// Delete removes an environment from the database
func (r *EnvironmentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Environment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountItemsInEnvironment counts the compliance items scoped to an environment
func (r *EnvironmentRepository) CountItemsInEnvironment(ctx context.Context, environmentID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ComplianceItem{}).Where("environment_id = ?", environmentID).Count(&count)
	return count, result.Error
}
