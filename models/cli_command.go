package models

import (
	"time"
)

// CommandParameter documents one CLI flag
type CommandParameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CommandParameters splits a command's flags into required and optional
type CommandParameters struct {
	Required []CommandParameter `json:"required,omitempty"`
	Optional []CommandParameter `json:"optional,omitempty"`
}

// CLICommand is a read-only reference entry for the platform CLI
type CLICommand struct {
	ID                uint              `json:"id" gorm:"primaryKey"`
	Name              string            `json:"name" gorm:"not null"`
	Category          string            `json:"category" gorm:"not null;index:idx_cli_commands_category"`
	Description       string            `json:"description"`
	Command           string            `json:"command" gorm:"not null"`
	Parameters        CommandParameters `json:"parameters" gorm:"type:text;serializer:json"`
	ExampleUsage      string            `json:"example_usage"`
	DocumentationLink string            `json:"documentation_link"`
	Tags              []string          `json:"tags" gorm:"type:text;serializer:json"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (CLICommand) TableName() string {
	return "cli_commands"
}
