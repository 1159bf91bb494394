package repositories

import (
	"context"

	"github.com/admin-concierge/models"
	"gorm.io/gorm"
)

// CLICommandRepository reads the CLI command reference
type CLICommandRepository struct {
	db *gorm.DB
}

// NewCLICommandRepository creates a new CLI command repository instance
func NewCLICommandRepository(db *gorm.DB) *CLICommandRepository {
	return &CLICommandRepository{db: db}
}

// List retrieves commands ordered by category and name. Both filters are optional.
func (r *CLICommandRepository) List(ctx context.Context, category, search string) ([]models.CLICommand, error) {
	var commands []models.CLICommand
	db := r.db.WithContext(ctx).Scopes(containsFold(search, "name", "description", "command"))
	if category != "" {
		db = db.Where("category = ?", category)
	}
	result := db.Order("category").Order("name").Find(&commands)
	return commands, result.Error
}

// FindByID retrieves a command by its ID
func (r *CLICommandRepository) FindByID(ctx context.Context, id uint) (models.CLICommand, error) {
	var command models.CLICommand
	result := r.db.WithContext(ctx).First(&command, id)
	return command, result.Error
}
