package services

import (
	"context"
	"errors"
	"strings"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/repositories"
	"gorm.io/gorm"
)

// CLIService serves the read-only CLI command reference
type CLIService struct {
	commandRepo *repositories.CLICommandRepository
}

// NewCLIService creates a new CLI reference service
func NewCLIService(db *gorm.DB) *CLIService {
	return &CLIService{commandRepo: repositories.NewCLICommandRepository(db)}
}

// ListCommands returns the commands matching category and search, ordered by
// category then name. Empty arguments do not filter.
func (s *CLIService) ListCommands(ctx context.Context, category, search string) ([]models.CLICommand, error) {
	commands, err := s.commandRepo.List(ctx, category, search)
	if err != nil {
		return nil, err
	}
	return normalizeCommands(commands), nil
}

// GroupedCommands returns every command keyed by its category
func (s *CLIService) GroupedCommands(ctx context.Context) (map[string][]models.CLICommand, error) {
	commands, err := s.commandRepo.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.CLICommand)
	for _, cmd := range normalizeCommands(commands) {
		grouped[cmd.Category] = append(grouped[cmd.Category], cmd)
	}
	return grouped, nil
}

// CommandCategories counts the commands in each category
func (s *CLIService) CommandCategories(ctx context.Context) ([]dto.CommandCategory, error) {
	commands, err := s.commandRepo.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	categories := make([]dto.CommandCategory, 0)
	var names []string
	seen := map[string]bool{}
	flush := func() {
		n := len(categories) - 1
		categories[n].SampleCommands = strings.Join(names, ",")
	}

	for _, cmd := range commands {
		if n := len(categories); n == 0 || categories[n-1].Category != cmd.Category {
			if n > 0 {
				flush()
			}
			categories = append(categories, dto.CommandCategory{Category: cmd.Category})
			names = nil
			seen = map[string]bool{}
		}
		categories[len(categories)-1].CommandCount++
		if !seen[cmd.Name] {
			seen[cmd.Name] = true
			names = append(names, cmd.Name)
		}
	}
	if len(categories) > 0 {
		flush()
	}
	return categories, nil
}

// GetCommand retrieves one command by ID
func (s *CLIService) GetCommand(ctx context.Context, id uint) (models.CLICommand, error) {
	cmd, err := s.commandRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cmd, apperrors.NotFound("CLI command")
	}
	if err != nil {
		return cmd, err
	}
	return normalizeCommand(cmd), nil
}

// QuickReference returns the CLI cheat sheet
func (s *CLIService) QuickReference() dto.QuickReference {
	return quickReference()
}

// BestPractices returns the CLI guidance list
func (s *CLIService) BestPractices() dto.BestPractices {
	return bestPractices()
}

func normalizeCommands(commands []models.CLICommand) []models.CLICommand {
	out := make([]models.CLICommand, len(commands))
	for i, cmd := range commands {
		out[i] = normalizeCommand(cmd)
	}
	return out
}

// normalizeCommand renders missing tags as an empty list
func normalizeCommand(cmd models.CLICommand) models.CLICommand {
	if cmd.Tags == nil {
		cmd.Tags = []string{}
	}
	return cmd
}
